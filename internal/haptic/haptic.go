// Package haptic provides the tactile feedback side channel fired when a
// pull triggers a refresh.
package haptic

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Style is the strength of an impact.
type Style int

const (
	None Style = iota
	Light
	Medium
	Heavy
	Soft
	Rigid
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = Medium

var styleNames = map[Style]string{
	None:   "none",
	Light:  "light",
	Medium: "medium",
	Heavy:  "heavy",
	Soft:   "soft",
	Rigid:  "rigid",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseStyle converts a configuration name into a Style.
// An empty name yields DefaultStyle.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultStyle, nil
	}
	for style, n := range styleNames {
		if n == name {
			return style, nil
		}
	}
	return None, fmt.Errorf("unknown haptic style %q", name)
}

// Feedback performs an impact. Callers never wait on it.
type Feedback interface {
	Impact(style Style)
}

// Nop discards every impact.
type Nop struct{}

// Impact implements Feedback.
func (Nop) Impact(Style) {}

// Bell rings the terminal bell, the only tactile-ish channel a terminal
// offers. Heavier styles ring more times.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Impact implements Feedback.
func (b *Bell) Impact(style Style) {
	rings := 0
	switch style {
	case Light, Soft, Medium, Rigid:
		rings = 1
	case Heavy:
		rings = 2
	}
	if rings == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, strings.Repeat("\a", rings))
}
