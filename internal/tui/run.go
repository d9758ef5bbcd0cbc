package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pullrefresh/internal/config"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/surface"
)

// Run wires a simulated feed into s as its refresh action and runs the demo
// until the user quits or ctx is cancelled.
func Run(ctx context.Context, s *surface.Surface, cfg *config.Config) error {
	f := feed.New(cfg.Demo.RefreshDuration, cfg.Demo.FailureRate, cfg.Demo.Items, uint64(time.Now().UnixNano()))
	s.SetRefreshAction(f.Refresh)

	events, cancel := s.Observe()
	defer cancel()

	p := tea.NewProgram(
		NewModel(s, events, f, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
