package imagegen

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"visualizer/internal/domain"
	"visualizer/internal/infra"
	"visualizer/internal/providers/replicate"
)

// AnalysisQuestion is asked of the captioning model for every photo.
const AnalysisQuestion = "Describe this kitchen in detail including: cabinet style (arched, raised panel, flat, shaker), lighting (warm, cool, neutral), camera angle (straight-on or angled), any missing drawer fronts, and overall condition."

var errAnalysisFailed = errors.New("vision prediction failed")

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	Client       predictionClient
	ModelVersion string
	Extractor    FeatureExtractor
	PollInterval time.Duration
	MaxWait      time.Duration
	Logger       *infra.Logger
	// OnDefault is invoked whenever the default feature set is returned.
	OnDefault func(source AnalysisSource)
}

// Analyzer derives PhotoFeatures from a photo via a vision captioning job.
// It never returns an error; failures degrade to DefaultPhotoFeatures.
type Analyzer struct {
	client       predictionClient
	version      string
	extractor    FeatureExtractor
	pollInterval time.Duration
	maxWait      time.Duration
	logger       *infra.Logger
	onDefault    func(source AnalysisSource)
}

// NewAnalyzer wires an Analyzer with defaults for unset options.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	extractor := opts.Extractor
	if extractor == nil {
		extractor = NewKeywordExtractor()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = 60 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Analyzer{
		client:       opts.Client,
		version:      strings.TrimSpace(opts.ModelVersion),
		extractor:    extractor,
		pollInterval: interval,
		maxWait:      maxWait,
		logger:       logger,
		onDefault:    opts.OnDefault,
	}
}

// Analyze captions the photo at imageURL and maps the caption to features.
func (a *Analyzer) Analyze(ctx context.Context, imageURL string) (domain.PhotoFeatures, AnalysisSource) {
	if a == nil || a.client == nil || !a.client.HasCredentials() {
		return a.fallback(SourceMissingCredential, nil)
	}
	description, err := a.describe(ctx, imageURL)
	if err != nil {
		return a.fallback(SourceFailure, err)
	}
	return a.extractor.Extract(description), SourceVision
}

func (a *Analyzer) describe(ctx context.Context, imageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.maxWait)
	defer cancel()

	pred, err := a.client.CreatePrediction(ctx, replicate.PredictionRequest{
		Version: a.version,
		Input: map[string]any{
			"image":    imageURL,
			"question": AnalysisQuestion,
		},
	})
	if err != nil {
		return "", err
	}
	if pred.HTTPStatus != http.StatusCreated {
		return "", &domain.UpstreamError{Kind: domain.ErrUpstreamSubmission, Service: "vision", Status: pred.HTTPStatus}
	}
	final, state, err := a.client.Wait(ctx, pred, replicate.WaitOptions{Interval: a.pollInterval})
	if err != nil {
		return "", err
	}
	switch state {
	case replicate.WaitSucceeded:
	case replicate.WaitTimedOut:
		return "", &domain.UpstreamError{Kind: domain.ErrUpstreamTimeout, Service: "vision", Detail: a.maxWait.String()}
	default:
		return "", &domain.UpstreamError{Kind: domain.ErrUpstreamFailure, Service: "vision", Detail: final.ErrorMessage()}
	}
	description := strings.TrimSpace(final.OutputText())
	if description == "" {
		return "", errAnalysisFailed
	}
	return description, nil
}

func (a *Analyzer) fallback(source AnalysisSource, err error) (domain.PhotoFeatures, AnalysisSource) {
	var logger *infra.Logger
	if a != nil {
		logger = a.logger
		if a.onDefault != nil {
			a.onDefault(source)
		}
	} else {
		logger = infra.DiscardLogger()
	}
	event := logger.Warn().Str("fallback_reason", string(source))
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("kitchen analysis unavailable, using default features")
	return domain.DefaultPhotoFeatures(), source
}
