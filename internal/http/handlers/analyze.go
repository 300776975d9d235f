package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
)

// Analyze accepts image_url as a form field or in a JSON body.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	var imageURL string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
		imageURL = body.ImageURL
	} else {
		imageURL = r.FormValue("image_url")
	}
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_url is required")
		return
	}

	analysis := a.Visualizer.Analyze(r.Context(), imageURL)
	a.json(w, http.StatusOK, map[string]any{
		"success":         true,
		"analysis":        analysis.Features,
		"analysis_source": analysis.Source,
	})
}
