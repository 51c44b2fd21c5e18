package engine

import (
	"slices"
	"time"

	"github.com/verte-zerg/reflexrush/internal/model"
	"github.com/verte-zerg/reflexrush/internal/stats"
)

// Phase returns the current phase.
func (e *Engine) Phase() model.Phase { return e.phase }

// Difficulty returns the difficulty of the current or last session.
func (e *Engine) Difficulty() model.Difficulty { return e.difficulty }

// SessionID returns the identifier of the current or last session.
func (e *Engine) SessionID() model.SessionID { return e.sessionID }

// StartedAt returns when the current or last session started.
func (e *Engine) StartedAt() time.Time { return e.startedAt }

// Score returns the number of target hits.
func (e *Engine) Score() int { return e.score }

// Misses returns decoy hits, empty clicks and timeouts combined.
func (e *Engine) Misses() int { return e.misses }

// Attempts returns the number of counted attempts.
func (e *Engine) Attempts() int { return e.attempts }

// SecondsRemaining returns the countdown value.
func (e *Engine) SecondsRemaining() int { return e.remaining }

// Accuracy returns the floored hit percentage.
func (e *Engine) Accuracy() int {
	return stats.Accuracy(e.score, e.attempts)
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Round returns a copy of the current round.
func (e *Engine) Round() model.Round {
	r := e.round
	r.Targets = slices.Clone(e.round.Targets)
	return r
}

// Targets returns a copy of the current round's circles in generation order.
func (e *Engine) Targets() []model.Target {
	return slices.Clone(e.round.Targets)
}

// Log returns a copy of the attempt log of the current or last session.
func (e *Engine) Log() []model.Attempt {
	return slices.Clone(e.log)
}

// Stats returns a snapshot of the counters.
func (e *Engine) Stats() model.Stats {
	return model.Stats{
		Phase:            e.phase,
		Difficulty:       e.difficulty,
		Score:            e.score,
		Misses:           e.misses,
		Attempts:         e.attempts,
		Accuracy:         e.Accuracy(),
		SecondsRemaining: e.remaining,
		SessionSeconds:   e.cfg.SessionSeconds,
	}
}

// Summary returns the final counters of the last ended session.
func (e *Engine) Summary() (model.Summary, bool) {
	return e.summary, e.hasSummary
}

// Epoch returns the clock generation that live timer ticks must carry.
func (e *Engine) Epoch() uint64 { return e.clock.Epoch() }
