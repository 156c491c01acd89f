package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"webgen/internal/domain"
	"webgen/internal/site"
	"webgen/pkg/zip"

	"github.com/go-chi/chi/v5"
)

func (a *App) GenerateWebsite(w http.ResponseWriter, r *http.Request) {
	var profile domain.WebsiteProfile
	if !a.decode(w, r, &profile) {
		return
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	files, err := a.Assembler.Assemble(profile)
	if err != nil {
		a.fail(w, r, fmt.Errorf("assemble site: %w", err))
		return
	}
	siteID, err := a.Store.Create(r.Context(), profile)
	if err != nil {
		a.fail(w, r, fmt.Errorf("create job: %w", err))
		return
	}
	if a.Metrics != nil {
		a.Metrics.SitesGenerated.Inc()
	}
	a.Logger.Info().Str("site_id", siteID).Str("site_type", profile.SiteType).Msg("site generated")
	a.json(w, http.StatusOK, map[string]any{
		"success":     true,
		"site_id":     siteID,
		"message":     a.msg(r, msgSiteGenerated),
		"pages_count": site.PageCount(profile),
		"files_count": len(files),
	})
}

func (a *App) GetWebsite(w http.ResponseWriter, r *http.Request) {
	job, err := a.Store.Get(r.Context(), chi.URLParam(r, "site_id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "data": job})
}

// WebsiteArchive streams the assembled bundle for a stored job.
func (a *App) WebsiteArchive(w http.ResponseWriter, r *http.Request) {
	job, err := a.Store.Get(r.Context(), chi.URLParam(r, "site_id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	files, err := a.Assembler.Assemble(job.Profile)
	if err != nil {
		a.fail(w, r, fmt.Errorf("assemble site %s: %w", job.ID, err))
		return
	}
	archive, err := zip.Archive(zip.FromMap(files))
	if err != nil {
		a.fail(w, r, fmt.Errorf("archive site %s: %w", job.ID, err))
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", site.ArchiveName(job.Profile.BusinessName)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

type editRequest struct {
	Command  string `json:"command"`
	Selector string `json:"selector"`
	Value    string `json:"value"`
	Page     string `json:"page"`
}

func (a *App) EditElement(w http.ResponseWriter, r *http.Request) {
	siteID := strings.TrimSpace(r.URL.Query().Get("site_id"))
	if siteID == "" {
		a.fail(w, r, domain.Invalid("site_id", domain.CodeRequired, "is required"))
		return
	}
	var req editRequest
	if !a.decode(w, r, &req) {
		return
	}
	command, ok := domain.ParseEditCommand(req.Command)
	if !ok {
		a.fail(w, r, domain.Invalid("command", domain.CodeUnsupported, "must be one of setText, setHTML, setImage, setStyle"))
		return
	}
	if strings.TrimSpace(req.Selector) == "" {
		a.fail(w, r, domain.Invalid("selector", domain.CodeRequired, "is required"))
		return
	}
	modID, err := a.Store.AppendModification(r.Context(), siteID, domain.EditModification{
		Command:  command,
		Selector: req.Selector,
		Value:    req.Value,
		Page:     strings.TrimSpace(req.Page),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if a.Metrics != nil {
		a.Metrics.EditsRecorded.Inc()
	}
	a.Logger.Info().Str("site_id", siteID).Str("command", string(command)).Msg("modification recorded")
	a.json(w, http.StatusOK, map[string]any{
		"success":         true,
		"modification_id": modID,
		"message":         a.msg(r, msgEditApplied),
	})
}
