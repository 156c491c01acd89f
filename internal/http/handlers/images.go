package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"webgen/internal/domain"
	"webgen/internal/providers/imagesearch"
)

func (a *App) GetImages(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		a.fail(w, r, domain.Invalid("query", domain.CodeRequired, "is required"))
		return
	}
	count, err := parseCount(r.URL.Query().Get("count"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	images, source := a.Images.Search(r.Context(), query, count)
	a.Logger.Debug().Str("query", query).Int("count", count).Str("source", source).Msg("image search")
	a.json(w, http.StatusOK, map[string]any{"success": true, "images": images})
}

// parseCount defaults to DefaultCount and clamps to MaxCount. Placeholder
// results honour the full count; Unsplash pages are capped by the client.
func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return imagesearch.DefaultCount, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid("count", domain.CodeMalformed, "must be a non-negative integer")
	}
	if n > imagesearch.MaxCount {
		n = imagesearch.MaxCount
	}
	return n, nil
}

type demoSearchRequest struct {
	Query string `json:"query"`
}

// SearchImages answers the editor's image picker from the curated demo set.
func (a *App) SearchImages(w http.ResponseWriter, r *http.Request) {
	var req demoSearchRequest
	if !a.decode(w, r, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		a.fail(w, r, domain.Invalid("query", domain.CodeRequired, "is required"))
		return
	}
	images := a.Demo.Search(query)
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"query":   query,
		"images":  images,
		"total":   len(images),
	})
}
