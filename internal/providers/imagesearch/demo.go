package imagesearch

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// DemoImage is the editor panel's image shape.
type DemoImage struct {
	ID             string `json:"id"`
	URL            string `json:"url"`
	SmallURL       string `json:"small_url"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
}

type demoPhoto struct {
	ID             string `yaml:"id"`
	Photo          string `yaml:"photo"`
	Description    string `yaml:"description"`
	AltDescription string `yaml:"alt_description"`
}

type demoSet struct {
	Keyword string      `yaml:"keyword"`
	Images  []demoPhoto `yaml:"images"`
}

// DemoCatalog serves curated images without calling any upstream API.
type DemoCatalog struct {
	Generic struct {
		Count     int    `yaml:"count"`
		URL       string `yaml:"url"`
		SmallURL  string `yaml:"small_url"`
		BasePhoto int64  `yaml:"base_photo"`
		Step      int64  `yaml:"step"`
	} `yaml:"generic"`
	Sets []demoSet `yaml:"sets"`
}

// LoadDemoCatalog parses the embedded catalog.
func LoadDemoCatalog() (*DemoCatalog, error) {
	var c DemoCatalog
	if err := yaml.Unmarshal(demoYAML, &c); err != nil {
		return nil, fmt.Errorf("imagesearch: decode demo catalog: %w", err)
	}
	if c.Generic.Count <= 0 {
		return nil, fmt.Errorf("imagesearch: demo catalog generic count must be positive")
	}
	return &c, nil
}

// Search returns the curated set whose keyword appears in query, or generic
// images labelled with the query.
func (c *DemoCatalog) Search(query string) []DemoImage {
	lower := strings.ToLower(query)
	for _, set := range c.Sets {
		if !strings.Contains(lower, set.Keyword) {
			continue
		}
		out := make([]DemoImage, 0, len(set.Images))
		for _, img := range set.Images {
			out = append(out, DemoImage{
				ID:             img.ID,
				URL:            fmt.Sprintf("https://images.unsplash.com/photo-%s?w=400&h=300&fit=crop&q=80", img.Photo),
				SmallURL:       fmt.Sprintf("https://images.unsplash.com/photo-%s?w=200&h=150&fit=crop&q=80", img.Photo),
				Description:    img.Description,
				AltDescription: img.AltDescription,
			})
		}
		return out
	}

	g := c.Generic
	out := make([]DemoImage, g.Count)
	for i := range out {
		photo := g.BasePhoto + int64(i)*g.Step
		out[i] = DemoImage{
			ID:             fmt.Sprintf("demo_%d", i),
			URL:            fmt.Sprintf(g.URL, photo),
			SmallURL:       fmt.Sprintf(g.SmallURL, photo),
			Description:    fmt.Sprintf("%s image %d", query, i+1),
			AltDescription: fmt.Sprintf("Image de %s", query),
		}
	}
	return out
}
