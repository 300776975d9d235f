package visualizer

import (
	"sync/atomic"

	"visualizer/internal/imagegen"
)

// Stats counts where analysis results came from since process start.
type Stats struct {
	vision            atomic.Int64
	skipped           atomic.Int64
	missingCredential atomic.Int64
	failure           atomic.Int64
	visualizations    atomic.Int64
	visualizeErrors   atomic.Int64
}

// Record increments the counter for source.
func (s *Stats) Record(source imagegen.AnalysisSource) {
	switch source {
	case imagegen.SourceVision:
		s.vision.Add(1)
	case imagegen.SourceSkipped:
		s.skipped.Add(1)
	case imagegen.SourceMissingCredential:
		s.missingCredential.Add(1)
	case imagegen.SourceFailure:
		s.failure.Add(1)
	}
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	AnalysisSources map[string]int64 `json:"analysis_sources"`
	Visualizations  int64            `json:"visualizations"`
	VisualizeErrors int64            `json:"visualize_errors"`
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		AnalysisSources: map[string]int64{
			string(imagegen.SourceVision):            s.vision.Load(),
			string(imagegen.SourceSkipped):           s.skipped.Load(),
			string(imagegen.SourceMissingCredential): s.missingCredential.Load(),
			string(imagegen.SourceFailure):           s.failure.Load(),
		},
		Visualizations:  s.visualizations.Load(),
		VisualizeErrors: s.visualizeErrors.Load(),
	}
}
