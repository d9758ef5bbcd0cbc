// Package segment computes the brightness of the eight segments of the
// circular refresh indicator.
//
// The Animator is a pure state machine: it never starts goroutines or
// timers itself. Update, Step and SettleDone return what the driver has to
// do with its tick clock and settle timer, so the driver stays in charge of
// time and the animator stays deterministic.
package segment

import (
	"fmt"

	"github.com/google/uuid"
)

// Count is the number of segments in the indicator.
const Count = 8

// TrailLength is the number of fading segments trailing the head.
const TrailLength = 4

const (
	trailStart = 0.8 // brightness budget the trail fades from
	trailStep  = 0.1 // brightness lost per segment of distance from the head

	spinRotation   = 180.0 // degrees the indicator turns when spinning starts
	settleRotation = 320.0 // extra turn played while settling
)

// Phase is the animation phase.
type Phase int

const (
	Idle Phase = iota
	Charging
	Spinning
	Settling
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Charging:
		return "charging"
	case Spinning:
		return "spinning"
	case Settling:
		return "settling"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Frame is a snapshot of the indicator.
type Frame struct {
	Identity   uuid.UUID // changes whenever a settle completes or is cut short
	Phase      Phase
	Brightness [Count]float64 // index 0 is the top, clockwise
	Head       int
	Lap        int
	Steps      int     // spin steps taken since spinning started
	Rotation   float64 // target rotation in degrees
	Scale      float64 // target scale, 0 while settling
}

// Effect lists the timing actions the driver must perform after an event.
type Effect struct {
	StopTicks  bool
	StartTicks bool
	Settle     uint64 // non-zero: arm a settle timer reporting this generation
}

// None reports whether the effect asks for nothing.
func (e Effect) None() bool {
	return !e.StopTicks && !e.StartTicks && e.Settle == 0
}

// Animator is the segment phase machine. It is not safe for concurrent use.
type Animator struct {
	stickZone float64

	frame      Frame
	refreshing bool
	progress   float64
	settleGen  uint64
}

// New creates an idle Animator. triggerDistance sets the stick zone width
// (triggerDistance/8) used while charging.
func New(triggerDistance float64) *Animator {
	a := &Animator{stickZone: triggerDistance / Count}
	a.reset()
	return a
}

// Frame returns the current frame.
func (a *Animator) Frame() Frame {
	return a.frame
}

// Phase returns the current phase.
func (a *Animator) Phase() Phase {
	return a.frame.Phase
}

// Brightness returns the current brightness vector.
func (a *Animator) Brightness() [Count]float64 {
	return a.frame.Brightness
}

// Update consumes one pull state change.
func (a *Animator) Update(progress float64, refreshing bool) Effect {
	wasRefreshing := a.refreshing
	a.refreshing = refreshing
	a.progress = progress

	switch {
	case refreshing && !wasRefreshing:
		return a.startSpin()
	case !refreshing && wasRefreshing:
		return a.startSettle()
	case refreshing:
		// Progress is frozen while refreshing.
		return Effect{}
	}

	switch a.frame.Phase {
	case Idle, Charging:
		a.charge(progress)
	case Settling:
		if progress > 0 {
			// A new pull cut the settle short: drop the old identity so the
			// pending settle timer is stale and the new charge starts clean.
			a.settleGen++
			a.reset()
			a.charge(progress)
		}
	}
	return Effect{}
}

// charge lights segments sequentially as progress grows. Segment k ramps
// from 0 to 1 while progress moves through [k*stickZone, 100].
func (a *Animator) charge(progress float64) {
	if progress <= 0 {
		a.frame.Brightness = [Count]float64{}
		a.frame.Phase = Idle
		return
	}

	a.frame.Phase = Charging
	for k := range a.frame.Brightness {
		lo := a.stickZone * float64(k)
		if progress < lo || progress > 100 || lo >= 100 {
			a.frame.Brightness[k] = 0
			continue
		}
		a.frame.Brightness[k] = clamp((progress - lo) / (100 - lo))
	}
}

func (a *Animator) startSpin() Effect {
	if a.frame.Phase == Settling {
		a.settleGen++
		a.reset()
	}
	a.frame.Phase = Spinning
	for k := range a.frame.Brightness {
		a.frame.Brightness[k] = 1
	}
	a.frame.Head = 0
	a.frame.Lap = 0
	a.frame.Steps = 0
	a.frame.Rotation = spinRotation
	a.frame.Scale = 1
	return Effect{StartTicks: true}
}

// Step advances the spin by one tick. Ticks outside the spinning phase are
// discarded and Step reports false.
func (a *Animator) Step() bool {
	if a.frame.Phase != Spinning {
		return false
	}

	head, laps := Wrap(a.frame.Head+1, Count)
	a.frame.Head = head
	a.frame.Lap += laps
	a.frame.Steps++

	for k := range a.frame.Brightness {
		d := (head - k + Count) % Count
		if a.frame.Lap == 0 && k > head {
			// First partial lap: the trail does not wrap past index 0 and
			// segments ahead of the head keep their lit value.
			continue
		}
		switch {
		case d == 0:
			a.frame.Brightness[k] = 1
		case d <= TrailLength:
			a.frame.Brightness[k] = clamp(trailStart - trailStep*float64(d))
		default:
			a.frame.Brightness[k] = 0
		}
	}
	return true
}

func (a *Animator) startSettle() Effect {
	if a.frame.Phase != Spinning {
		// Refresh ended without ever spinning: nothing to wind down.
		a.reset()
		return Effect{StopTicks: true}
	}
	a.settleGen++
	a.frame.Phase = Settling
	a.frame.Rotation += settleRotation
	a.frame.Scale = 0
	return Effect{StopTicks: true, Settle: a.settleGen}
}

// SettleDone consumes the expiry of the settle timer armed for gen. It
// reports false for stale generations.
func (a *Animator) SettleDone(gen uint64) bool {
	if a.frame.Phase != Settling || gen != a.settleGen {
		return false
	}
	a.reset()
	return true
}

// reset returns to Idle under a fresh identity.
func (a *Animator) reset() {
	a.frame = Frame{
		Identity: uuid.New(),
		Phase:    Idle,
		Scale:    1,
	}
}

// Wrap folds index into [0, bound) and returns how many whole bounds were
// crossed, negative when wrapping backwards.
func Wrap(index, bound int) (int, int) {
	laps := index / bound
	index %= bound
	if index < 0 {
		index += bound
		laps--
	}
	return index, laps
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
