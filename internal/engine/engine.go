// Package engine implements the round and session state machine.
//
// An Engine is not safe for concurrent use. Clicks and clock ticks must be
// delivered from one event loop, one at a time, in arrival order.
package engine

import (
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/reflexrush/internal/clock"
	"github.com/verte-zerg/reflexrush/internal/generator"
	"github.com/verte-zerg/reflexrush/internal/model"
	"github.com/verte-zerg/reflexrush/internal/stats"
)

// Defaults for Config.
const (
	DefaultWidth           = 600
	DefaultHeight          = 400
	DefaultCircleSize      = 50
	DefaultTargetsPerRound = 5
	DefaultSessionSeconds  = 20
)

// Config holds the session geometry and length.
type Config struct {
	Bounds          model.Rect
	CircleSize      int
	TargetsPerRound int
	SessionSeconds  int
}

// DefaultConfig returns the standard 600x400 board with five circles.
func DefaultConfig() Config {
	return Config{
		Bounds:          model.Rect{Width: DefaultWidth, Height: DefaultHeight},
		CircleSize:      DefaultCircleSize,
		TargetsPerRound: DefaultTargetsPerRound,
		SessionSeconds:  DefaultSessionSeconds,
	}
}

// Listener receives state-change notifications. Payloads are copies.
type Listener interface {
	StatsChanged(model.Stats)
	RoundChanged(model.Round)
	SessionEnded(model.Summary)
	AttemptRecorded(model.SessionID, model.Attempt)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) StatsChanged(model.Stats)                       {}
func (NopListener) RoundChanged(model.Round)                       {}
func (NopListener) SessionEnded(model.Summary)                     {}
func (NopListener) AttemptRecorded(model.SessionID, model.Attempt) {}

// Engine owns the current session and round.
type Engine struct {
	cfg      Config
	rnd      *rand.Rand
	clock    *clock.Clock
	listener Listener
	logger   *slog.Logger
	now      func() time.Time

	phase      model.Phase
	difficulty model.Difficulty
	sessionID  model.SessionID
	startedAt  time.Time

	round     model.Round
	roundSeq  int
	score     int
	misses    int
	attempts  int
	remaining int
	log       []model.Attempt

	summary    model.Summary
	hasSummary bool
}

// New returns an idle Engine. Nil listener and logger are replaced by no-ops
// and a nil rnd by a time-seeded source.
func New(cfg Config, sched clock.Scheduler, rnd *rand.Rand, listener Listener, logger *slog.Logger) *Engine {
	if listener == nil {
		listener = NopListener{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if rnd == nil {
		rnd = generator.New().Rand()
	}
	if cfg.SessionSeconds <= 0 {
		cfg.SessionSeconds = DefaultSessionSeconds
	}
	return &Engine{
		cfg:        cfg,
		rnd:        rnd,
		clock:      clock.New(sched),
		listener:   listener,
		logger:     logger,
		now:        time.Now,
		difficulty: model.Medium,
		remaining:  cfg.SessionSeconds,
	}
}

// SetNow replaces the time source used for attempt timestamps.
func (e *Engine) SetNow(now func() time.Time) {
	e.now = now
}

// Start begins a new session, superseding any session in progress. On a
// configuration error the current state is left untouched.
func (e *Engine) Start(difficulty model.Difficulty) error {
	difficulty, err := model.ParseDifficulty(string(difficulty))
	if err != nil {
		return err
	}
	if err := generator.Validate(e.cfg.Bounds, e.cfg.CircleSize, e.cfg.TargetsPerRound); err != nil {
		return err
	}

	if e.phase == model.Running {
		e.logger.Info("session superseded", "session", e.sessionID, "score", e.score, "attempts", e.attempts)
	}
	e.clock.Stop()

	e.phase = model.Running
	e.difficulty = difficulty
	e.sessionID = uuid.New()
	e.startedAt = e.now()
	e.score = 0
	e.misses = 0
	e.attempts = 0
	e.remaining = e.cfg.SessionSeconds
	e.roundSeq = 0
	e.log = nil
	e.summary = model.Summary{}
	e.hasSummary = false

	epoch := e.clock.Start(difficulty.RoundDelay())
	e.logger.Info("session started",
		"session", e.sessionID,
		"difficulty", difficulty,
		"epoch", epoch,
		"seconds", e.remaining,
	)
	if err := e.spawnRound(false); err != nil {
		e.clock.Stop()
		e.phase = model.Idle
		return err
	}
	e.listener.StatsChanged(e.Stats())
	return nil
}

// Click applies a pointer click at (x, y). It returns the attempt kind and
// true when the click was counted; clicks outside a running session are ignored.
func (e *Engine) Click(x, y int) (model.AttemptKind, bool) {
	if e.phase != model.Running {
		e.logger.Debug("click ignored", "phase", e.phase, "x", x, "y", y)
		return 0, false
	}
	index := -1
	for i, t := range e.round.Targets {
		if t.ContainsPoint(x, y) {
			index = i
			break
		}
	}

	kind := model.EmptyClick
	switch {
	case index < 0:
	case e.round.Targets[index].IsTarget:
		kind = model.Hit
	default:
		kind = model.DecoyHit
	}

	e.record(kind, x, y, index)
	if kind == model.Hit {
		// The fresh round absorbs the next round-timer firing.
		if err := e.spawnRound(true); err != nil {
			e.logger.Error("failed to spawn round", "error", err)
		}
	}
	e.listener.StatsChanged(e.Stats())
	return kind, true
}

// HandleTick applies a timer firing. It returns false for ticks from a stopped
// or superseded session.
func (e *Engine) HandleTick(tick clock.Tick) bool {
	if e.phase != model.Running || !e.clock.Accept(tick) {
		e.logger.Debug("stale tick dropped", "timer", tick.Kind, "epoch", tick.Epoch, "current", e.clock.Epoch())
		return false
	}
	switch tick.Kind {
	case clock.SessionTimer:
		e.sessionTick()
	case clock.RoundTimer:
		e.roundTick()
	default:
		return false
	}
	e.clock.Rearm(tick)
	return true
}

func (e *Engine) sessionTick() {
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.end()
		return
	}
	e.listener.StatsChanged(e.Stats())
}

func (e *Engine) roundTick() {
	if e.round.Consumed {
		e.round.Consumed = false
		return
	}
	e.record(model.Timeout, 0, 0, -1)
	if err := e.spawnRound(false); err != nil {
		e.logger.Error("failed to spawn round", "error", err)
	}
	e.listener.StatsChanged(e.Stats())
}

func (e *Engine) end() {
	e.clock.Stop()
	e.phase = model.Ended
	e.round = model.Round{Seq: e.roundSeq}
	e.summary = e.buildSummary()
	e.hasSummary = true
	e.logger.Info("session ended",
		"session", e.sessionID,
		"score", e.score,
		"misses", e.misses,
		"accuracy", e.Accuracy(),
	)
	e.listener.RoundChanged(e.round)
	e.listener.StatsChanged(e.Stats())
	e.listener.SessionEnded(e.summary)
}

// record appends to the attempt log and moves the counters with it.
func (e *Engine) record(kind model.AttemptKind, x, y, index int) {
	at := e.now()
	a := model.Attempt{
		Seq:         len(e.log) + 1,
		Kind:        kind,
		X:           x,
		Y:           y,
		TargetIndex: index,
		RoundSeq:    e.round.Seq,
		At:          at,
	}
	if kind.Scored() {
		a.Reaction = at.Sub(e.round.SpawnedAt)
		e.score++
	} else {
		e.misses++
	}
	e.attempts++
	e.log = append(e.log, a)
	e.listener.AttemptRecorded(e.sessionID, a)
}

func (e *Engine) spawnRound(consumed bool) error {
	targets, err := generator.Generate(e.rnd, e.cfg.Bounds, e.cfg.CircleSize, e.cfg.TargetsPerRound)
	if err != nil {
		return err
	}
	e.roundSeq++
	e.round = model.Round{
		Seq:       e.roundSeq,
		Targets:   targets,
		SpawnedAt: e.now(),
		Consumed:  consumed,
	}
	e.listener.RoundChanged(e.Round())
	return nil
}

func (e *Engine) buildSummary() model.Summary {
	counts := stats.Tally(e.log)
	avg, best := stats.ReactionMetrics(e.log)
	return model.Summary{
		SessionID:    e.sessionID,
		Difficulty:   e.difficulty,
		Score:        e.score,
		Misses:       e.misses,
		Attempts:     e.attempts,
		Accuracy:     e.Accuracy(),
		Hits:         counts[model.Hit],
		DecoyHits:    counts[model.DecoyHit],
		EmptyClicks:  counts[model.EmptyClick],
		Timeouts:     counts[model.Timeout],
		Rounds:       e.roundSeq,
		AvgReaction:  avg,
		BestReaction: best,
		StartedAt:    e.startedAt,
		EndedAt:      e.now(),
	}
}
