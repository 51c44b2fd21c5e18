package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/reflexrush/internal/clock"
)

type tickMsg clock.Tick

// teaScheduler turns clock requests into tea.Tick commands. Commands are
// collected during Update and returned as one batch.
type teaScheduler struct {
	cmds []tea.Cmd
}

func (s *teaScheduler) Schedule(delay time.Duration, tick clock.Tick) {
	s.cmds = append(s.cmds, tea.Tick(delay, func(time.Time) tea.Msg {
		return tickMsg(tick)
	}))
}

func (s *teaScheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmd := tea.Batch(s.cmds...)
	s.cmds = nil
	return cmd
}
