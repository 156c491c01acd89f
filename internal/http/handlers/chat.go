package handlers

import "net/http"

type chatRequest struct {
	Message string `json:"message"`
}

func (a *App) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.json(w, http.StatusOK, a.Assistant.Respond(req.Message))
}
