package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"visualizer/internal/domain"
	"visualizer/internal/visualizer"
)

type visualizeRequest struct {
	ImageURL string `json:"image_url"`
	domain.StyleSelection
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	SkipAnalysis bool   `json:"skip_analysis"`
}

type visualizeResponse struct {
	Success        bool                 `json:"success"`
	OriginalURL    string               `json:"original_url"`
	FinalURL       string               `json:"final_url"`
	PromptUsed     string               `json:"prompt_used"`
	Analysis       domain.PhotoFeatures `json:"analysis"`
	AnalysisSource string               `json:"analysis_source"`
	Lead           *domain.Lead         `json:"lead,omitempty"`
}

func newVisualizeResponse(res *visualizer.Result) visualizeResponse {
	return visualizeResponse{
		Success:        true,
		OriginalURL:    res.OriginalURL,
		FinalURL:       res.FinalURL,
		PromptUsed:     res.Prompt,
		Analysis:       res.Analysis.Features,
		AnalysisSource: string(res.Analysis.Source),
	}
}

func (a *App) Visualize(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	res, err := a.Visualizer.Visualize(r.Context(), visualizer.Request{
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Style:        req.StyleSelection,
		Lead:         domain.Lead{Name: req.Name, Phone: req.Phone},
		SkipAnalysis: req.SkipAnalysis,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, newVisualizeResponse(res))
}

func (a *App) VisualizeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read image")
		return
	}

	skip := false
	if raw := strings.TrimSpace(r.FormValue("skip_analysis")); raw != "" {
		if skip, err = strconv.ParseBool(raw); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "skip_analysis must be a boolean")
			return
		}
	}
	lead := domain.Lead{Name: r.FormValue("name"), Phone: r.FormValue("phone")}

	res, err := a.Visualizer.VisualizeUpload(r.Context(), visualizer.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, visualizer.Request{
		Style: domain.StyleSelection{
			DoorStyle:      domain.DoorStyle(r.FormValue("door_style")),
			HardwareStyle:  domain.HardwareStyle(r.FormValue("hardware_style")),
			HardwareFinish: domain.HardwareFinish(r.FormValue("hardware_finish")),
			ColorHex:       r.FormValue("color_hex"),
			ColorName:      r.FormValue("color_name"),
		},
		Lead:         lead,
		SkipAnalysis: skip,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resp := newVisualizeResponse(res)
	resp.Lead = &lead
	a.json(w, http.StatusOK, resp)
}
