package handlers

import (
	"net/http"

	"visualizer/internal/imagegen"
)

// Metrics reports analysis source and visualization counters.
func (a *App) Metrics(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Visualizer.Stats())
}

func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, imagegen.CatalogOptions())
}
