package site

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Section names understood by the page templates.
const (
	SectionAbout    = "about"
	SectionServices = "services"
	SectionContact  = "contact"
)

// Service is one {icon, title, description} entry of a services grid.
type Service struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// PageSpec describes a page the renderer knows how to fill.
type PageSpec struct {
	Title   string `yaml:"title"`
	Section string `yaml:"section"`
}

// Category groups the data attached to one site type.
type Category struct {
	Label    string    `yaml:"label"`
	Services []Service `yaml:"services"`
}

// Catalog is the data side of rendering: which pages exist and which services
// each site type shows. Adding a category is a change to catalog.yaml only.
type Catalog struct {
	HomeTitle string              `yaml:"home_title"`
	Pages     map[string]PageSpec `yaml:"pages"`
	SiteTypes map[string]Category `yaml:"site_types"`
	Default   Category            `yaml:"default"`
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("site: decode catalog: %w", err)
	}
	if strings.TrimSpace(c.HomeTitle) == "" {
		return nil, errors.New("site: catalog home_title is required")
	}
	if len(c.Default.Services) == 0 {
		return nil, errors.New("site: catalog default services are required")
	}
	for name, page := range c.Pages {
		switch page.Section {
		case SectionAbout, SectionServices, SectionContact:
		default:
			return nil, fmt.Errorf("site: page %q has unknown section %q", name, page.Section)
		}
	}
	return &c, nil
}

// Services returns the grid for siteType. Lookup is an exact match on the
// category string; unknown types get the default set.
func (c *Catalog) Services(siteType string) []Service {
	if cat, ok := c.SiteTypes[siteType]; ok && len(cat.Services) > 0 {
		return cat.Services
	}
	return c.Default.Services
}

// Label returns the display label for siteType.
func (c *Catalog) Label(siteType string) string {
	if cat, ok := c.SiteTypes[siteType]; ok && cat.Label != "" {
		return cat.Label
	}
	return c.Default.Label
}

// Page returns the catalog entry for a page name.
func (c *Catalog) Page(name string) (PageSpec, bool) {
	spec, ok := c.Pages[name]
	return spec, ok
}
