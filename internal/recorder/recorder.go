package recorder

import "PortfolioTracker/internal/model"

// Recorder persists refresh outcomes for later inspection. Recording is best
// effort: a failed write is logged by the caller, never fails the refresh.
type Recorder interface {
	RecordSnapshot(snap *model.PortfolioSnapshot) error
	Close() error
}
