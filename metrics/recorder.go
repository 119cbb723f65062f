// Package metrics records content loading outcomes.
package metrics

import "time"

// Outcome is the final disposition of a single load request.
type Outcome string

const (
	OutcomeReady    Outcome = "ready"
	OutcomeFailed   Outcome = "failed"
	OutcomeStale    Outcome = "stale"    // completed after a newer request superseded it
	OutcomeCanceled Outcome = "canceled" // aborted before completion
)

// Recorder receives loader observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	IncLoadOutcome(outcome Outcome)
	ObserveFetchDuration(d time.Duration, success bool)
	IncFallbackResolution()
}

// NoopRecorder discards everything. It is the default when metrics are not
// configured.
type NoopRecorder struct{}

func (NoopRecorder) IncLoadOutcome(Outcome)                   {}
func (NoopRecorder) ObserveFetchDuration(time.Duration, bool) {}
func (NoopRecorder) IncFallbackResolution()                   {}
