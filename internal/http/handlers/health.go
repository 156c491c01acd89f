package handlers

import (
	"net/http"
	"time"
)

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"message": a.msg(r, msgBanner)})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": a.clock().UTC().Format(time.RFC3339),
	})
}
