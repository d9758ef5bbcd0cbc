// Package pull implements the pull-progress state machine: the tracker that
// maps overscroll offsets to progress, and the coordinator that turns a
// saturated pull into exactly one refresh per gesture.
package pull

import (
	"errors"
	"fmt"
	"math"
)

// DefaultTriggerDistance is the overscroll, in offset units, at which
// progress saturates and a refresh fires.
const DefaultTriggerDistance = 80.0

// MaxProgress is the saturated progress value.
const MaxProgress = 100.0

// ErrInvalidTrigger is returned for a trigger distance that is not a
// positive finite number.
var ErrInvalidTrigger = errors.New("pull: trigger distance must be positive")

// Tracker maps raw offsets to pull progress.
type Tracker struct {
	trigger float64
}

// Result is the outcome of tracking one offset sample.
type Result struct {
	Progress  float64
	Recharged bool
	Trigger   bool // the sample saturated progress while recharged
}

// NewTracker creates a Tracker for the given trigger distance.
func NewTracker(triggerDistance float64) (Tracker, error) {
	if math.IsNaN(triggerDistance) || math.IsInf(triggerDistance, 0) || triggerDistance <= 0 {
		return Tracker{}, fmt.Errorf("%w: got %v", ErrInvalidTrigger, triggerDistance)
	}
	return Tracker{trigger: triggerDistance}, nil
}

// TriggerDistance returns the configured trigger distance.
func (t Tracker) TriggerDistance() float64 {
	return t.trigger
}

// RestDistance is the offset at or below which the gesture counts as
// returned to rest and the recharge guard re-arms.
func (t Tracker) RestDistance() float64 {
	return t.trigger / 10
}

// Track computes the progress and recharge flag for one offset sample.
//
// Progress is frozen while refreshing. When the guard is not recharged,
// progress holds its last value rather than snapping to zero, so a partial
// release followed by a re-pull does not make the indicator jump.
func (t Tracker) Track(offset float64, s State) Result {
	r := Result{Progress: s.Progress, Recharged: s.Recharged}

	if offset <= t.RestDistance() {
		r.Recharged = true
	}
	if s.Refreshing || !r.Recharged || math.IsNaN(offset) {
		return r
	}

	switch {
	case offset < 0:
		// Content scrolled past the top edge: no overscroll left.
		r.Progress = 0
	case offset < t.trigger:
		r.Progress = offset / t.trigger * MaxProgress
	default:
		r.Progress = MaxProgress
		r.Trigger = true
	}
	return r
}
