package pull

import (
	"errors"
	"math"
	"testing"
	"testing/quick"
)

func TestNewTrackerRejectsBadTrigger(t *testing.T) {
	for _, d := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if _, err := NewTracker(d); !errors.Is(err, ErrInvalidTrigger) {
			t.Errorf("NewTracker(%v) error = %v, want ErrInvalidTrigger", d, err)
		}
	}
}

func TestTrack(t *testing.T) {
	tr, err := NewTracker(100)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		offset float64
		state  State
		want   Result
	}{
		{
			name:   "linear below trigger",
			offset: 40,
			state:  State{Recharged: true},
			want:   Result{Progress: 40, Recharged: true},
		},
		{
			name:   "saturates and triggers",
			offset: 130,
			state:  State{Recharged: true, Progress: 90},
			want:   Result{Progress: 100, Recharged: true, Trigger: true},
		},
		{
			name:   "exact trigger distance",
			offset: 100,
			state:  State{Recharged: true},
			want:   Result{Progress: 100, Recharged: true, Trigger: true},
		},
		{
			name:   "not recharged holds progress",
			offset: 60,
			state:  State{Progress: 35},
			want:   Result{Progress: 35},
		},
		{
			name:   "not recharged past trigger does not fire",
			offset: 150,
			state:  State{Progress: 0},
			want:   Result{Progress: 0},
		},
		{
			name:   "rest distance recharges",
			offset: 10,
			state:  State{Progress: 35},
			want:   Result{Progress: 10, Recharged: true},
		},
		{
			name:   "refreshing freezes progress",
			offset: 20,
			state:  State{Refreshing: true, Progress: 100, Recharged: true},
			want:   Result{Progress: 100, Recharged: true},
		},
		{
			name:   "refreshing still recharges at rest",
			offset: 3,
			state:  State{Refreshing: true, Progress: 100},
			want:   Result{Progress: 100, Recharged: true},
		},
		{
			name:   "negative offset clears progress",
			offset: -25,
			state:  State{Recharged: true, Progress: 30},
			want:   Result{Progress: 0, Recharged: true},
		},
		{
			name:   "NaN offset is ignored",
			offset: math.NaN(),
			state:  State{Recharged: true, Progress: 30},
			want:   Result{Progress: 30, Recharged: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Track(tt.offset, tt.state)
			if got != tt.want {
				t.Errorf("Track(%v) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}

// TestTrackMonotonic verifies that a monotonically increasing pull from 0
// yields non-decreasing progress that reaches exactly 100 at the trigger.
func TestTrackMonotonic(t *testing.T) {
	property := func(trigger uint8, steps []uint8) bool {
		d := float64(trigger) + 1
		tr, err := NewTracker(d)
		if err != nil {
			return false
		}

		s := State{Recharged: true}
		offset := 0.0
		for _, step := range steps {
			offset += float64(step) / 10
			if offset > d {
				offset = d
			}
			r := tr.Track(offset, s)
			if r.Progress < s.Progress || r.Progress > MaxProgress {
				return false
			}
			s.Progress, s.Recharged = r.Progress, r.Recharged
		}

		r := tr.Track(d, s)
		return r.Progress == MaxProgress && r.Trigger
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestTrackProgressBounded verifies progress never leaves [0,100].
func TestTrackProgressBounded(t *testing.T) {
	tr, _ := NewTracker(DefaultTriggerDistance)
	property := func(offset float64, progress uint8, recharged, refreshing bool) bool {
		s := State{Progress: float64(progress % 101), Recharged: recharged, Refreshing: refreshing}
		r := tr.Track(offset, s)
		return r.Progress >= 0 && r.Progress <= MaxProgress
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
