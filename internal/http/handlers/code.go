package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type codeRequest struct {
	Prompt string `json:"prompt"`
}

// Code proxies a single message to the chat completion deployment.
func (a *App) Code(w http.ResponseWriter, r *http.Request) {
	if a.Chat == nil {
		a.error(w, http.StatusInternalServerError, "not_configured", "chat completion is not configured")
		return
	}
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	out, err := a.Chat.Complete(r.Context(), req.Prompt)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"output": out})
}
