package handlers

import (
	"net/http"
)

const apiVersion = "1.0.0"

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Kitchen Visualizer API v1.0",
		"endpoints": map[string]string{
			"POST /visualize":        "Full visualization pipeline",
			"POST /visualize/upload": "Upload image and visualize",
			"POST /prompt/generate":  "Generate prompt only (no image processing)",
			"POST /analyze":          "Analyze kitchen image only",
			"POST /code":             "Chat completion proxy",
			"GET /options":           "Available door, hardware and finish options",
		},
	})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "healthy", "version": apiVersion})
}
