// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/reflexrush/internal/clock"
	"github.com/verte-zerg/reflexrush/internal/engine"
	"github.com/verte-zerg/reflexrush/internal/model"
	"github.com/verte-zerg/reflexrush/internal/stats"
)

// Journal records the attempts of the active session.
type Journal interface {
	BeginSession(ctx context.Context, id model.SessionID, difficulty model.Difficulty, startedAt time.Time) error
	RecordAttempt(ctx context.Context, id model.SessionID, a model.Attempt) error
	Breakdown(ctx context.Context, id model.SessionID) (model.Breakdown, error)
}

const (
	headerRows = 2
	footerRows = 2
)

// Model implements the Bubble Tea game UI. It is the presentation side of the
// engine: it forwards keys, mouse clicks and timer ticks, and redraws from the
// snapshots the engine publishes.
type Model struct {
	engine  *engine.Engine
	sched   *teaScheduler
	journal Journal
	logger  *slog.Logger

	keys      keyMap
	help      help.Model
	countdown progress.Model
	table     table.Model

	width  int
	height int

	selected   model.Difficulty
	stats      model.Stats
	round      model.Round
	summary    model.Summary
	hasSummary bool
	breakdown  model.Breakdown
	feedback   string
	errMsg     string
}

// NewModel constructs the game UI and its engine. journal may be nil.
func NewModel(cfg engine.Config, rnd *rand.Rand, journal Journal, difficulty model.Difficulty, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if difficulty == "" {
		difficulty = model.Medium
	}
	m := &Model{
		sched:     &teaScheduler{},
		journal:   journal,
		logger:    logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		countdown: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		selected:  difficulty,
	}
	m.engine = engine.New(cfg, m.sched, rnd, m, logger)
	m.stats = m.engine.Stats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.countdown.Width = msg.Width
		m.help.Width = msg.Width
	case tickMsg:
		m.engine.HandleTick(clock.Tick(msg))
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleClick(msg.X, msg.Y)
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			m.startSession()
		case key.Matches(msg, m.keys.Easy):
			m.selected = model.Easy
		case key.Matches(msg, m.keys.Medium):
			m.selected = model.Medium
		case key.Matches(msg, m.keys.Hard):
			m.selected = model.Hard
		}
	}
	return m, m.sched.drain()
}

// Summary returns the summary of the last finished session.
func (m *Model) Summary() (model.Summary, bool) {
	return m.summary, m.hasSummary
}

// Engine exposes the engine for read access.
func (m *Model) Engine() *engine.Engine {
	return m.engine
}

func (m *Model) startSession() {
	if err := m.engine.Start(m.selected); err != nil {
		m.errMsg = err.Error()
		m.logger.Error("failed to start session", "error", err)
		return
	}
	m.errMsg = ""
	m.feedback = ""
	m.hasSummary = false
	m.breakdown = model.Breakdown{}
	if m.journal == nil {
		return
	}
	id := m.engine.SessionID()
	if err := m.journal.BeginSession(context.Background(), id, m.engine.Difficulty(), m.engine.StartedAt()); err != nil {
		m.logger.Warn("failed to begin journal session", "session", id, "error", err)
	}
}

func (m *Model) canvas() canvas {
	rows := m.height - headerRows - footerRows
	if rows < 1 {
		rows = 1
	}
	return canvas{bounds: m.engine.Config().Bounds, cols: m.width, rows: rows}
}

// handleClick maps a terminal cell to the play area and forwards it.
func (m *Model) handleClick(col, row int) {
	c := m.canvas()
	row -= headerRows
	if !c.valid() || !c.contains(col, row) {
		return
	}
	x, y := c.resolve(m.round.Targets, col, row)
	m.engine.Click(x, y)
}

// StatsChanged implements engine.Listener.
func (m *Model) StatsChanged(s model.Stats) {
	m.stats = s
}

// RoundChanged implements engine.Listener.
func (m *Model) RoundChanged(r model.Round) {
	m.round = r
}

// AttemptRecorded implements engine.Listener.
func (m *Model) AttemptRecorded(id model.SessionID, a model.Attempt) {
	m.feedback = attemptFeedback(a)
	if m.journal == nil {
		return
	}
	if err := m.journal.RecordAttempt(context.Background(), id, a); err != nil {
		m.logger.Warn("failed to journal attempt", "session", id, "seq", a.Seq, "error", err)
	}
}

// SessionEnded implements engine.Listener.
func (m *Model) SessionEnded(s model.Summary) {
	m.summary = s
	m.hasSummary = true
	m.feedback = ""
	m.breakdown = model.Breakdown{Counts: map[model.AttemptKind]int{
		model.Hit:        s.Hits,
		model.DecoyHit:   s.DecoyHits,
		model.EmptyClick: s.EmptyClicks,
		model.Timeout:    s.Timeouts,
	}, AvgReaction: s.AvgReaction}
	if m.journal != nil {
		b, err := m.journal.Breakdown(context.Background(), s.SessionID)
		switch {
		case err != nil:
			m.logger.Warn("failed to read journal", "session", s.SessionID, "error", err)
		case b.Total() != s.Attempts:
			m.logger.Warn("journal out of sync", "session", s.SessionID, "journal", b.Total(), "attempts", s.Attempts)
		default:
			m.breakdown = b
		}
	}
	m.table = buildBreakdownTable(m.breakdown)
}

func attemptFeedback(a model.Attempt) string {
	switch a.Kind {
	case model.Hit:
		return fmt.Sprintf("Hit! %s", stats.FormatReaction(a.Reaction))
	case model.DecoyHit:
		return "Wrong circle!"
	case model.EmptyClick:
		return "Missed!"
	case model.Timeout:
		return "Too slow!"
	default:
		return ""
	}
}
