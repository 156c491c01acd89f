// Package imagesearch finds stock photos for the site editor. Searches never
// fail from the caller's point of view: any upstream problem yields
// placeholder images.
package imagesearch

import (
	"context"
	"fmt"

	"webgen/internal/infra"
	"webgen/internal/metrics"
)

// DefaultCount applies when the caller gives no count. MaxCount bounds the
// number of records one search can return; Unsplash itself pages at
// MaxPerPage.
const (
	DefaultCount = 6
	MaxCount     = 100
	MaxPerPage   = 30
)

// Sources reported with each result.
const (
	SourceUnsplash    = "unsplash"
	SourcePlaceholder = "placeholder"
)

// Image is one search result as exposed to the editor.
type Image struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Thumb       string `json:"thumb"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

// Searcher is the upstream photo API.
type Searcher interface {
	HasCredentials() bool
	Search(ctx context.Context, query string, count int) ([]Image, error)
}

// Service wraps a Searcher with the placeholder fallback.
type Service struct {
	upstream Searcher
	logger   infra.Logger
	metrics  *metrics.Metrics
}

func NewService(upstream Searcher, logger infra.Logger, m *metrics.Metrics) *Service {
	return &Service{upstream: upstream, logger: logger, metrics: m}
}

// Search returns images for query and the source they came from.
func (s *Service) Search(ctx context.Context, query string, count int) ([]Image, string) {
	if s.upstream == nil || !s.upstream.HasCredentials() {
		return s.fallback(count, nil)
	}
	images, err := s.upstream.Search(ctx, query, count)
	if err != nil {
		return s.fallback(count, err)
	}
	s.observe(SourceUnsplash)
	return images, SourceUnsplash
}

func (s *Service) fallback(count int, cause error) ([]Image, string) {
	if cause != nil {
		s.logger.Warn().Err(cause).Msg("image search failed, serving placeholders")
	}
	s.observe(SourcePlaceholder)
	return Placeholders(count), SourcePlaceholder
}

func (s *Service) observe(source string) {
	if s.metrics != nil {
		s.metrics.ImageSearchTotal.WithLabelValues(source).Inc()
	}
}

// Placeholders returns exactly count picsum.photos images.
func Placeholders(count int) []Image {
	if count < 0 {
		count = 0
	}
	images := make([]Image, count)
	for i := range images {
		images[i] = Image{
			ID:          fmt.Sprintf("demo-%d", i),
			URL:         fmt.Sprintf("https://picsum.photos/800/600?random=%d", i),
			Thumb:       fmt.Sprintf("https://picsum.photos/200/150?random=%d", i),
			Description: fmt.Sprintf("Image de démonstration %d", i+1),
			Author:      "Picsum Photos",
		}
	}
	return images
}
