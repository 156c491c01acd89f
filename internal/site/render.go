package site

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"webgen/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// Renderer turns a profile into the individual files of a site bundle.
// It holds no per-call state and is safe for concurrent use.
type Renderer struct {
	catalog *Catalog
	html    *htmltemplate.Template
	css     *texttemplate.Template
	readme  *texttemplate.Template
	script  string
	title   cases.Caser
}

// NewRenderer parses the embedded templates against catalog.
func NewRenderer(catalog *Catalog) (*Renderer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("site: catalog is required")
	}
	html, err := htmltemplate.New("site").
		Funcs(htmltemplate.FuncMap{"tel": telURL}).
		ParseFS(templatesFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parse html templates: %w", err)
	}
	css, err := texttemplate.ParseFS(templatesFS, "templates/styles.css.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parse css template: %w", err)
	}
	readme, err := texttemplate.ParseFS(templatesFS, "templates/README.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parse readme template: %w", err)
	}
	script, err := templatesFS.ReadFile("templates/script.js")
	if err != nil {
		return nil, fmt.Errorf("site: read script: %w", err)
	}
	return &Renderer{
		catalog: catalog,
		html:    html,
		css:     css,
		readme:  readme,
		script:  string(script),
		title:   cases.Title(language.French),
	}, nil
}

type navItem struct {
	Href   string
	Title  string
	Active bool
}

type socialLink struct {
	Name string
	URL  string
}

type sectionView struct {
	Kind  string
	ID    string
	Title string
	Root  *pageView
}

type pageView struct {
	Profile     domain.WebsiteProfile
	IsHome      bool
	Title       string
	HomeTitle   string
	ContactHref string
	Nav         []navItem
	Sections    []sectionView
	Services    []Service
	Social      []socialLink
}

// Index renders index.html: navigation, hero and one section per selected
// catalog page. Pages the catalog does not know get no section.
func (r *Renderer) Index(p domain.WebsiteProfile) (string, error) {
	view := r.view(p, domain.HomePage)
	view.IsHome = true
	view.Title = r.catalog.HomeTitle
	for _, page := range p.ContentPages() {
		spec, ok := r.catalog.Page(page)
		if !ok {
			continue
		}
		view.Sections = append(view.Sections, sectionView{Kind: spec.Section, ID: page, Title: spec.Title, Root: view})
	}
	return r.executeHTML(view)
}

// Page renders {page}.html. Unknown pages get a titled placeholder.
func (r *Renderer) Page(p domain.WebsiteProfile, page string) (string, error) {
	view := r.view(p, page)
	view.Title = r.PageTitle(page)
	kind := ""
	if spec, ok := r.catalog.Page(page); ok {
		kind = spec.Section
	}
	view.Sections = []sectionView{{Kind: kind, ID: page, Title: view.Title, Root: view}}
	return r.executeHTML(view)
}

// ServicesGrid returns the services shown for the profile's site type.
func (r *Renderer) ServicesGrid(p domain.WebsiteProfile) []Service {
	return r.catalog.Services(p.SiteType)
}

// CSS renders styles.css with the profile colors substituted verbatim.
func (r *Renderer) CSS(p domain.WebsiteProfile) (string, error) {
	colors := struct{ PrimaryColor, SecondaryColor string }{p.PrimaryColor, p.SecondaryColor}
	if colors.PrimaryColor == "" {
		colors.PrimaryColor = domain.DefaultPrimaryColor
	}
	if colors.SecondaryColor == "" {
		colors.SecondaryColor = domain.DefaultSecondaryColor
	}
	var buf bytes.Buffer
	if err := r.css.Execute(&buf, colors); err != nil {
		return "", fmt.Errorf("site: render css: %w", err)
	}
	return buf.String(), nil
}

// JS returns script.js. The script does not depend on the profile.
func (r *Renderer) JS() string {
	return r.script
}

type readmePage struct {
	Title string
	File  string
}

// README renders the install and customization guide.
func (r *Renderer) README(p domain.WebsiteProfile) (string, error) {
	pages := []readmePage{{Title: r.catalog.HomeTitle, File: IndexFile}}
	files := []string{IndexFile}
	for _, page := range p.ContentPages() {
		pages = append(pages, readmePage{Title: r.PageTitle(page), File: PageFile(page)})
		files = append(files, PageFile(page))
	}
	files = append(files, StylesFile, ScriptFile, ReadmeFile)
	data := struct {
		Profile domain.WebsiteProfile
		Label   string
		Pages   []readmePage
		Files   []string
	}{Profile: p, Label: r.catalog.Label(p.SiteType), Pages: pages, Files: files}

	var buf bytes.Buffer
	if err := r.readme.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("site: render readme: %w", err)
	}
	return buf.String(), nil
}

// PageTitle is the catalog title of page, or the title-cased page name.
func (r *Renderer) PageTitle(page string) string {
	if spec, ok := r.catalog.Page(page); ok && spec.Title != "" {
		return spec.Title
	}
	return r.title.String(strings.ReplaceAll(page, "-", " "))
}

func (r *Renderer) view(p domain.WebsiteProfile, current string) *pageView {
	view := &pageView{
		Profile:   p,
		HomeTitle: r.catalog.HomeTitle,
		Services:  r.catalog.Services(p.SiteType),
	}
	for _, page := range p.ContentPages() {
		view.Nav = append(view.Nav, navItem{Href: PageFile(page), Title: r.PageTitle(page), Active: page == current})
		if spec, ok := r.catalog.Page(page); ok && spec.Section == SectionContact && view.ContactHref == "" {
			view.ContactHref = PageFile(page)
		}
	}
	names := make([]string, 0, len(p.SocialMedia))
	for name := range p.SocialMedia {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		view.Social = append(view.Social, socialLink{Name: r.title.String(name), URL: p.SocialMedia[name]})
	}
	return view
}

func (r *Renderer) executeHTML(view *pageView) (string, error) {
	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, "layout", view); err != nil {
		return "", fmt.Errorf("site: render html: %w", err)
	}
	return buf.String(), nil
}

// telURL builds a tel: link from the digits of a phone number.
func telURL(phone string) htmltemplate.URL {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return htmltemplate.URL("tel:" + b.String())
}
