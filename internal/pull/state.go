package pull

import "fmt"

// Stage is the coordinator's position in one gesture.
type Stage int

const (
	StageIdle       Stage = iota // no overscroll, no refresh
	StagePulling                 // overscrolled, progress tracking the offset
	StageRefreshing              // refresh action in flight
	StageEnding                  // action resolved, end hook running
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StagePulling:
		return "pulling"
	case StageRefreshing:
		return "refreshing"
	case StageEnding:
		return "ending"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// State is the pull state of one scrollable surface. It is owned by a
// Coordinator and only changes through the coordinator's operations.
type State struct {
	Stage           Stage
	Refreshing      bool    // true from trigger until the end hook has completed
	Progress        float64 // [0,100]
	Recharged       bool    // gesture has returned to rest since the last refresh
	TriggerDistance float64
	Err             error // result of the most recent refresh action
}
