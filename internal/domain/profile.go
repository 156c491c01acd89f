package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPrimaryColor is applied when the profile omits primaryColor.
	DefaultPrimaryColor = "#3b82f6"
	// DefaultSecondaryColor is applied when the profile omits secondaryColor.
	DefaultSecondaryColor = "#1e40af"
	// HomePage is the page name rendered as index.html.
	HomePage = "accueil"

	minBusinessNameLen = 2
	minDescriptionLen  = 10
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// WebsiteProfile is the business description a site is generated from.
type WebsiteProfile struct {
	BusinessName   string            `json:"businessName"`
	Description    string            `json:"description"`
	SiteType       string            `json:"siteType"`
	UserEmail      string            `json:"userEmail"`
	Phone          string            `json:"phone"`
	Address        string            `json:"address"`
	Website        string            `json:"website"`
	Slogan         string            `json:"slogan"`
	TeamInfo       string            `json:"teamInfo"`
	ServicesDetail string            `json:"servicesDetail"`
	SelectedPages  []string          `json:"selectedPages"`
	SocialMedia    map[string]string `json:"socialMedia"`
	PrimaryColor   string            `json:"primaryColor"`
	SecondaryColor string            `json:"secondaryColor"`
	TemplateID     string            `json:"templateId"`
	Photos         []string          `json:"photos"`
}

// Normalize trims free-form fields, applies default colors and drops
// duplicate or blank page names while keeping the submitted order.
func (p *WebsiteProfile) Normalize() {
	if p == nil {
		return
	}
	p.BusinessName = strings.TrimSpace(p.BusinessName)
	p.Description = strings.TrimSpace(p.Description)
	p.SiteType = strings.TrimSpace(p.SiteType)
	p.UserEmail = strings.TrimSpace(p.UserEmail)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	p.Website = strings.TrimSpace(p.Website)
	p.Slogan = strings.TrimSpace(p.Slogan)
	p.TeamInfo = strings.TrimSpace(p.TeamInfo)
	p.ServicesDetail = strings.TrimSpace(p.ServicesDetail)
	p.TemplateID = strings.TrimSpace(p.TemplateID)
	p.PrimaryColor = strings.TrimSpace(p.PrimaryColor)
	p.SecondaryColor = strings.TrimSpace(p.SecondaryColor)
	if p.PrimaryColor == "" {
		p.PrimaryColor = DefaultPrimaryColor
	}
	if p.SecondaryColor == "" {
		p.SecondaryColor = DefaultSecondaryColor
	}

	seen := make(map[string]struct{}, len(p.SelectedPages))
	pages := make([]string, 0, len(p.SelectedPages))
	for _, page := range p.SelectedPages {
		page = strings.ToLower(strings.TrimSpace(page))
		if page == "" {
			continue
		}
		if _, dup := seen[page]; dup {
			continue
		}
		seen[page] = struct{}{}
		pages = append(pages, page)
	}
	p.SelectedPages = pages

	social := make(map[string]string, len(p.SocialMedia))
	for name, url := range p.SocialMedia {
		name = strings.ToLower(strings.TrimSpace(name))
		url = strings.TrimSpace(url)
		if name == "" || url == "" {
			continue
		}
		social[name] = url
	}
	p.SocialMedia = social

	photos := p.Photos[:0:0]
	for _, ref := range p.Photos {
		if ref = strings.TrimSpace(ref); ref != "" {
			photos = append(photos, ref)
		}
	}
	p.Photos = photos
}

// Validate checks the profile shape. It expects Normalize to have run.
func (p WebsiteProfile) Validate() error {
	if utf8.RuneCountInString(p.BusinessName) < minBusinessNameLen {
		return Invalid("businessName", CodeTooShort, "must be at least 2 characters")
	}
	if utf8.RuneCountInString(p.Description) < minDescriptionLen {
		return Invalid("description", CodeTooShort, "must be at least 10 characters")
	}
	if p.SiteType == "" {
		return Invalid("siteType", CodeRequired, "is required")
	}
	if p.UserEmail == "" {
		return Invalid("userEmail", CodeRequired, "is required")
	}
	if addr, err := mail.ParseAddress(p.UserEmail); err != nil || addr.Address != p.UserEmail {
		return Invalid("userEmail", CodeMalformed, "is not a valid email address")
	}
	if len(p.SelectedPages) == 0 {
		return Invalid("selectedPages", CodeRequired, "at least one page must be selected")
	}
	if !hexColor.MatchString(p.PrimaryColor) {
		return Invalid("primaryColor", CodeMalformed, "must be a hex color like #3b82f6")
	}
	if !hexColor.MatchString(p.SecondaryColor) {
		return Invalid("secondaryColor", CodeMalformed, "must be a hex color like #1e40af")
	}
	return nil
}

// ContentPages returns the selected pages other than the home page.
func (p WebsiteProfile) ContentPages() []string {
	out := make([]string, 0, len(p.SelectedPages))
	for _, page := range p.SelectedPages {
		if page == HomePage {
			continue
		}
		out = append(out, page)
	}
	return out
}

// HasPage reports whether page was selected.
func (p WebsiteProfile) HasPage(page string) bool {
	for _, selected := range p.SelectedPages {
		if selected == page {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stored snapshots never alias caller memory.
func (p WebsiteProfile) Clone() WebsiteProfile {
	out := p
	out.SelectedPages = append([]string(nil), p.SelectedPages...)
	out.Photos = append([]string(nil), p.Photos...)
	if p.SocialMedia != nil {
		out.SocialMedia = make(map[string]string, len(p.SocialMedia))
		for k, v := range p.SocialMedia {
			out.SocialMedia[k] = v
		}
	}
	return out
}
