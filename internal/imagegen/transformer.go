package imagegen

import (
	"context"
	"errors"
	"strings"
	"time"

	"visualizer/internal/domain"
	"visualizer/internal/infra"
	"visualizer/internal/providers/replicate"
)

const editService = "nano-banana"

// TransformerOptions configures a Transformer.
type TransformerOptions struct {
	Client       predictionClient
	Model        string
	OutputFormat string
	PollInterval time.Duration
	MaxAttempts  int
	Logger       *infra.Logger
}

// Transformer runs the composed prompt through the image-editing model.
type Transformer struct {
	client       predictionClient
	model        string
	outputFormat string
	pollInterval time.Duration
	maxAttempts  int
	logger       *infra.Logger
}

// NewTransformer wires a Transformer with defaults for unset options.
func NewTransformer(opts TransformerOptions) *Transformer {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "google/nano-banana"
	}
	format := strings.TrimSpace(opts.OutputFormat)
	if format == "" {
		format = "jpg"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 120
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Transformer{
		client:       opts.Client,
		model:        model,
		outputFormat: format,
		pollInterval: interval,
		maxAttempts:  attempts,
		logger:       logger,
	}
}

// HasCredentials reports whether the edit model can be called.
func (t *Transformer) HasCredentials() bool {
	return t != nil && t.client != nil && t.client.HasCredentials()
}

// Transform submits the edit job and returns the location of the result.
func (t *Transformer) Transform(ctx context.Context, imageURL, prompt string) (string, error) {
	if !t.HasCredentials() {
		return "", domain.ErrMissingCredential
	}
	pred, err := t.client.CreatePrediction(ctx, replicate.PredictionRequest{
		Model: t.model,
		Input: map[string]any{
			"prompt":        prompt,
			"image_input":   []string{imageURL},
			"output_format": t.outputFormat,
		},
	})
	if err != nil {
		var submitErr *replicate.SubmitError
		if errors.As(err, &submitErr) {
			return "", &domain.UpstreamError{Kind: domain.ErrUpstreamSubmission, Service: editService, Status: submitErr.Status, Detail: submitErr.Body}
		}
		return "", err
	}
	final, state, err := t.client.Wait(ctx, pred, replicate.WaitOptions{Interval: t.pollInterval, MaxAttempts: t.maxAttempts})
	if err != nil {
		return "", err
	}
	switch state {
	case replicate.WaitSucceeded:
	case replicate.WaitTimedOut:
		return "", &domain.UpstreamError{Kind: domain.ErrUpstreamTimeout, Service: editService, Detail: "prediction " + final.ID + " still " + final.Status}
	default:
		return "", &domain.UpstreamError{Kind: domain.ErrUpstreamFailure, Service: editService, Detail: final.ErrorMessage()}
	}
	url, ok := final.FirstOutput()
	if !ok {
		return "", domain.ErrNoImageReturned
	}
	t.logger.Debug().Str("prediction_id", final.ID).Str("url", url).Msg("nano-banana: edit complete")
	return url, nil
}
