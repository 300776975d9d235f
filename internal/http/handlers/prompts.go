package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"visualizer/internal/domain"
)

type promptGenerateRequest struct {
	domain.StyleSelection
	domain.PhotoFeatures
}

func (a *App) PromptGenerate(w http.ResponseWriter, r *http.Request) {
	var req promptGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_description is required")
		return
	}
	features := req.PhotoFeatures
	features.Lighting = features.Lighting.Normalize()
	prompt := a.Visualizer.GeneratePrompt(req.StyleSelection, features)
	a.json(w, http.StatusOK, map[string]any{"success": true, "prompt": prompt})
}
