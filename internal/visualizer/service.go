package visualizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"visualizer/internal/domain"
	"visualizer/internal/imagegen"
	"visualizer/internal/infra"
	"visualizer/internal/providers/telegram"
	"visualizer/internal/storage"
)

type analyzer interface {
	Analyze(ctx context.Context, imageURL string) (domain.PhotoFeatures, imagegen.AnalysisSource)
}

type transformer interface {
	HasCredentials() bool
	Transform(ctx context.Context, imageURL, prompt string) (string, error)
}

// LeadNotifier receives an alert for every successful visualization that
// carries contact details.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, alert telegram.LeadAlert) error
}

const leadAlertTimeout = 10 * time.Second

// Options wires a Service.
type Options struct {
	Analyzer    analyzer
	Transformer transformer
	Uploader    storage.Uploader
	Notifier    LeadNotifier
	Stats       *Stats
	Logger      *infra.Logger
	// MaxConcurrent bounds pipelines running at once. Zero means unbounded.
	MaxConcurrent int
}

// Service runs the analyze, compose, transform pipeline.
type Service struct {
	analyzer    analyzer
	transformer transformer
	uploader    storage.Uploader
	notifier    LeadNotifier
	stats       *Stats
	logger      *infra.Logger
	slots       *semaphore.Weighted
	alerts      sync.WaitGroup
}

func NewService(opts Options) *Service {
	stats := opts.Stats
	if stats == nil {
		stats = &Stats{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	var slots *semaphore.Weighted
	if opts.MaxConcurrent > 0 {
		slots = semaphore.NewWeighted(int64(opts.MaxConcurrent))
	}
	return &Service{
		analyzer:    opts.Analyzer,
		transformer: opts.Transformer,
		uploader:    opts.Uploader,
		notifier:    opts.Notifier,
		stats:       stats,
		logger:      logger,
		slots:       slots,
	}
}

// Request is one visualization job.
type Request struct {
	ImageURL     string
	Style        domain.StyleSelection
	Lead         domain.Lead
	SkipAnalysis bool
}

// Upload is a photo received directly from the client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Analysis is a feature set and where it came from.
type Analysis struct {
	Features domain.PhotoFeatures
	Source   imagegen.AnalysisSource
}

// Result is the outcome of a successful visualization.
type Result struct {
	OriginalURL string
	FinalURL    string
	Prompt      string
	Analysis    Analysis
	Lead        domain.Lead
}

// Wait blocks until queued lead alerts have been sent or given up.
func (s *Service) Wait() {
	s.alerts.Wait()
}

// Stats exposes the service counters.
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// Visualize transforms the photo at req.ImageURL.
func (s *Service) Visualize(ctx context.Context, req Request) (*Result, error) {
	if err := s.requireCredentials(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, fmt.Errorf("image_url is required: %w", domain.ErrInvalidInput)
	}
	return s.run(ctx, req, "visualize")
}

// VisualizeUpload stores the uploaded photo and then runs Visualize on
// the stored location.
func (s *Service) VisualizeUpload(ctx context.Context, upload Upload, req Request) (*Result, error) {
	if err := s.requireCredentials(); err != nil {
		return nil, err
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("image file is empty: %w", domain.ErrInvalidInput)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("no upload storage configured: %w", domain.ErrMissingCredential)
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	filename := upload.Filename
	if filename == "" {
		filename = "kitchen.jpg"
	}
	url, err := s.uploader.Upload(ctx, filename, upload.Data, contentType)
	if err != nil {
		s.stats.visualizeErrors.Add(1)
		return nil, fmt.Errorf("store upload: %w", err)
	}
	req.ImageURL = url
	return s.run(ctx, req, "visualize_upload")
}

// Analyze derives features for a single photo.
func (s *Service) Analyze(ctx context.Context, imageURL string) Analysis {
	features, source := s.analyzer.Analyze(ctx, imageURL)
	s.stats.Record(source)
	return Analysis{Features: features, Source: source}
}

// GeneratePrompt composes a prompt from caller supplied features.
func (s *Service) GeneratePrompt(style domain.StyleSelection, features domain.PhotoFeatures) string {
	return imagegen.ComposePrompt(features.Description, style, features)
}

func (s *Service) requireCredentials() error {
	if s.transformer == nil || !s.transformer.HasCredentials() {
		return fmt.Errorf("image editing token not configured: %w", domain.ErrMissingCredential)
	}
	return nil
}

func (s *Service) run(ctx context.Context, req Request, origin string) (*Result, error) {
	if s.slots != nil {
		if err := s.slots.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("wait for pipeline slot: %w", err)
		}
		defer s.slots.Release(1)
	}

	var analysis Analysis
	if req.SkipAnalysis {
		analysis = Analysis{Features: domain.DefaultPhotoFeatures(), Source: imagegen.SourceSkipped}
		s.stats.Record(analysis.Source)
	} else {
		analysis = s.Analyze(ctx, req.ImageURL)
	}

	prompt := imagegen.ComposePrompt(analysis.Features.Description, req.Style, analysis.Features)

	finalURL, err := s.transformer.Transform(ctx, req.ImageURL, prompt)
	if err != nil {
		s.stats.visualizeErrors.Add(1)
		return nil, err
	}
	s.stats.visualizations.Add(1)

	res := &Result{
		OriginalURL: req.ImageURL,
		FinalURL:    finalURL,
		Prompt:      prompt,
		Analysis:    analysis,
		Lead:        req.Lead,
	}
	s.logger.Info().
		Str("origin", origin).
		Str("analysis_source", string(analysis.Source)).
		Str("door_style", string(req.Style.DoorStyle)).
		Msg("visualization complete")
	s.notifyLead(ctx, origin, req, res)
	return res, nil
}

// notifyLead sends the alert in the background so a slow chat API never
// delays the response. The send outlives the request context.
func (s *Service) notifyLead(ctx context.Context, origin string, req Request, res *Result) {
	if s.notifier == nil || req.Lead.IsZero() {
		return
	}
	alert := telegram.LeadAlert{
		Lead:        req.Lead,
		Style:       req.Style,
		Source:      origin,
		OriginalURL: res.OriginalURL,
		FinalURL:    res.FinalURL,
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leadAlertTimeout)
	s.alerts.Add(1)
	go func() {
		defer s.alerts.Done()
		defer cancel()
		if err := s.notifier.NotifyLead(sendCtx, alert); err != nil {
			s.logger.Warn().Err(err).Msg("lead alert not delivered")
		}
	}()
}
