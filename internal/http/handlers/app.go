package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"webgen/internal/domain"
	"webgen/internal/infra"
	"webgen/internal/metrics"
	"webgen/internal/middleware"
	"webgen/internal/providers/chat"
	"webgen/internal/providers/imagesearch"
	"webgen/internal/queue"
	"webgen/internal/site"
)

// App carries the dependencies shared by every handler.
type App struct {
	Store     domain.JobStore
	Queue     queue.Queue
	Assembler *site.Assembler
	Images    *imagesearch.Service
	Demo      *imagesearch.DemoCatalog
	Assistant *chat.Assistant
	Metrics   *metrics.Metrics
	Logger    infra.Logger

	now func() time.Time
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"success": false, "error": code, "message": message})
}

// RateLimited answers requests rejected by the rate limiter.
func (a *App) RateLimited(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusTooManyRequests, "rate_limited", a.msg(r, msgRateLimited))
}

// fail maps domain errors onto the JSON error envelope. Only validation
// errors expose their detail to the client.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "validation_error",
			"field":   verr.Field,
			"message": a.validationMsg(r, verr),
		})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", a.msg(r, msgSiteNotFound))
	default:
		a.Logger.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", a.msg(r, msgInternal))
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, msgInvalidPayload))
		return false
	}
	return true
}

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}
