package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/reflexrush/internal/model"
	"github.com/verte-zerg/reflexrush/internal/stats"
)

var (
	targetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	decoyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	feedbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	panelStyle    = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	c := m.canvas()
	var body string
	switch m.stats.Phase {
	case model.Running:
		body = c.render(m.round.Targets, targetStyle, decoyStyle)
	case model.Ended:
		body = lipgloss.Place(c.cols, c.rows, lipgloss.Center, lipgloss.Center, m.renderSummary())
	default:
		body = lipgloss.Place(c.cols, c.rows, lipgloss.Center, lipgloss.Center, panelStyle.Render(Rules(m.stats.SessionSeconds)))
	}
	parts := []string{
		m.renderHeader(),
		m.renderCountdown(),
		body,
		m.renderStatus(),
		m.help.View(m.keys),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderHeader() string {
	s := m.stats
	segments := []string{
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Time: %d", s.SecondsRemaining),
		fmt.Sprintf("Misses: %d", s.Misses),
		fmt.Sprintf("Accuracy: %d%%", s.Accuracy),
	}
	line := runewidth.Truncate(strings.Join(segments, "  "), m.width, "…")
	used := runewidth.StringWidth(line)
	diff := m.renderDifficulty(m.width - used - 2)
	if diff == "" {
		return headerStyle.Render(line)
	}
	return headerStyle.Render(line) + "  " + diff
}

// renderDifficulty lists the presets, highlighting the sticky selection.
func (m *Model) renderDifficulty(space int) string {
	labels := make([]string, 0, len(model.Difficulties))
	width := runewidth.StringWidth("Difficulty:")
	for _, d := range model.Difficulties {
		labels = append(labels, d.Label())
		width += 1 + runewidth.StringWidth(d.Label())
	}
	if width > space {
		return ""
	}
	parts := []string{mutedStyle.Render("Difficulty:")}
	for i, d := range model.Difficulties {
		if d == m.selected {
			parts = append(parts, selectedStyle.Render(labels[i]))
		} else {
			parts = append(parts, mutedStyle.Render(labels[i]))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderCountdown() string {
	total := m.stats.SessionSeconds
	if total <= 0 {
		return ""
	}
	ratio := float64(m.stats.SecondsRemaining) / float64(total)
	if m.stats.Phase == model.Idle {
		ratio = 1
	}
	return m.countdown.ViewAs(ratio)
}

func (m *Model) renderStatus() string {
	if m.errMsg != "" {
		return errorStyle.Render(runewidth.Truncate(m.errMsg, m.width, "…"))
	}
	if m.feedback != "" && m.stats.Phase == model.Running {
		return feedbackStyle.Render(runewidth.Truncate(m.feedback, m.width, "…"))
	}
	return ""
}

func (m *Model) renderSummary() string {
	s := m.summary
	lines := []string{
		headerStyle.Render("Time's up!"),
		"",
		fmt.Sprintf("Final Score: %d | Misses: %d | Accuracy: %d%%", s.Score, s.Misses, s.Accuracy),
		fmt.Sprintf("Difficulty: %s   Rounds: %d", s.Difficulty.Label(), s.Rounds),
		fmt.Sprintf("Avg reaction: %s   Best: %s", stats.FormatReaction(s.AvgReaction), stats.FormatReaction(s.BestReaction)),
		"",
		m.table.View(),
		"",
		mutedStyle.Render("Press s to play again"),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func buildBreakdownTable(b model.Breakdown) table.Model {
	columns := []table.Column{
		{Title: "Outcome", Width: 9},
		{Title: "Count", Width: 6},
		{Title: "Share", Width: 6},
	}
	source := stats.BreakdownRows(b)
	rows := make([]table.Row, 0, len(source))
	for _, r := range source {
		rows = append(rows, table.Row(r))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	t.Blur()
	return t
}
