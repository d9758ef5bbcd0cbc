package control

import (
	"time"

	"pullrefresh/internal/bus"
	"pullrefresh/internal/segment"
)

// StatusView is the JSON form of a surface snapshot.
type StatusView struct {
	Surface    string    `json:"surface"`
	Stage      string    `json:"stage"`
	Progress   float64   `json:"progress"`
	Refreshing bool      `json:"refreshing"`
	Error      string    `json:"error,omitempty"`
	Phase      string    `json:"phase"`
	Identity   string    `json:"identity"`
	Brightness []float64 `json:"brightness"`
	Head       int       `json:"head"`
	Lap        int       `json:"lap"`
	Steps      int       `json:"steps"`
	Rotation   float64   `json:"rotation"`
	Scale      float64   `json:"scale"`
}

// EventView is the JSON form of a bus event.
type EventView struct {
	ID     int64      `json:"id"`
	Kind   string     `json:"kind"`
	At     time.Time  `json:"at"`
	Status StatusView `json:"status"`
}

func statusView(id string, snap bus.Snapshot) StatusView {
	v := StatusView{
		Surface:    id,
		Stage:      snap.Stage.String(),
		Progress:   snap.Progress,
		Refreshing: snap.Refreshing,
		Phase:      snap.Frame.Phase.String(),
		Identity:   snap.Frame.Identity.String(),
		Brightness: make([]float64, segment.Count),
		Head:       snap.Frame.Head,
		Lap:        snap.Frame.Lap,
		Steps:      snap.Frame.Steps,
		Rotation:   snap.Frame.Rotation,
		Scale:      snap.Frame.Scale,
	}
	copy(v.Brightness, snap.Frame.Brightness[:])
	if snap.Err != nil {
		v.Error = snap.Err.Error()
	}
	return v
}

func eventViews(id string, events []bus.Event) []EventView {
	out := make([]EventView, len(events))
	for i, ev := range events {
		out[i] = EventView{
			ID:     ev.ID,
			Kind:   string(ev.Kind),
			At:     ev.At,
			Status: statusView(id, ev.Snapshot),
		}
	}
	return out
}
