package imagegen

import (
	"context"

	"visualizer/internal/providers/replicate"
)

// predictionClient is the subset of the Replicate client used by the
// analyzer and the transformer.
type predictionClient interface {
	HasCredentials() bool
	CreatePrediction(ctx context.Context, req replicate.PredictionRequest) (*replicate.Prediction, error)
	Wait(ctx context.Context, pred *replicate.Prediction, opts replicate.WaitOptions) (*replicate.Prediction, replicate.WaitState, error)
}

var _ predictionClient = (*replicate.Client)(nil)

// AnalysisSource records where a feature set came from.
type AnalysisSource string

const (
	SourceVision            AnalysisSource = "vision"
	SourceSkipped           AnalysisSource = "skipped"
	SourceMissingCredential AnalysisSource = "default_missing_credential"
	SourceFailure           AnalysisSource = "default_failure"
)

// Defaulted reports whether the features are the fixed default set.
func (s AnalysisSource) Defaulted() bool {
	return s != SourceVision
}
