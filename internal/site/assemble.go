package site

import (
	"sort"

	"webgen/internal/domain"
)

// Fixed file names of every bundle.
const (
	IndexFile  = "index.html"
	StylesFile = "styles.css"
	ScriptFile = "script.js"
	ReadmeFile = "README.md"
)

// PageFile is the bundle file name of a content page.
func PageFile(page string) string {
	return page + ".html"
}

// Files maps bundle file names to their content.
type Files map[string]string

// Names returns the file names in sorted order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assembler builds the full file set of a site. It performs no I/O.
type Assembler struct {
	renderer *Renderer
}

func NewAssembler(renderer *Renderer) *Assembler {
	return &Assembler{renderer: renderer}
}

// NewDefaultAssembler wires an assembler to the embedded catalog.
func NewDefaultAssembler() (*Assembler, error) {
	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(catalog)
	if err != nil {
		return nil, err
	}
	return NewAssembler(renderer), nil
}

// Renderer exposes the underlying renderer.
func (a *Assembler) Renderer() *Renderer {
	return a.renderer
}

// Assemble renders index.html, styles.css, script.js, README.md and one
// {page}.html per selected page other than the home page.
func (a *Assembler) Assemble(p domain.WebsiteProfile) (Files, error) {
	pages := p.ContentPages()
	files := make(Files, len(pages)+4)

	index, err := a.renderer.Index(p)
	if err != nil {
		return nil, err
	}
	files[IndexFile] = index

	for _, page := range pages {
		content, err := a.renderer.Page(p, page)
		if err != nil {
			return nil, err
		}
		files[PageFile(page)] = content
	}

	css, err := a.renderer.CSS(p)
	if err != nil {
		return nil, err
	}
	files[StylesFile] = css
	files[ScriptFile] = a.renderer.JS()

	readme, err := a.renderer.README(p)
	if err != nil {
		return nil, err
	}
	files[ReadmeFile] = readme
	return files, nil
}

// PageCount is the number of pages the customer selected, after Normalize
// drops blanks and duplicates. index.html is generated either way and only
// counts when the home page was selected.
func PageCount(p domain.WebsiteProfile) int {
	return len(p.SelectedPages)
}
