package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"visualizer/internal/domain"
	"visualizer/internal/infra"
	"visualizer/internal/providers/chat"
	"visualizer/internal/visualizer"
)

const defaultMaxUploadBytes = 32 << 20

// App holds the collaborators shared by every handler.
type App struct {
	Visualizer     *visualizer.Service
	Chat           chat.Completer
	Logger         *infra.Logger
	MaxUploadBytes int64
}

func NewApp(svc *visualizer.Service, completer chat.Completer, logger *infra.Logger) *App {
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &App{Visualizer: svc, Chat: completer, Logger: logger, MaxUploadBytes: defaultMaxUploadBytes}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}

// fail maps a domain error to its HTTP status.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Str("error_code", code).Msg("request failed")
	a.error(w, status, code, err.Error())
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusInternalServerError, "not_configured"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, domain.ErrUpstreamSubmission):
		return http.StatusInternalServerError, "upstream_submission"
	case errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusInternalServerError, "upstream_failure"
	case errors.Is(err, domain.ErrNoImageReturned):
		return http.StatusInternalServerError, "no_image_returned"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
