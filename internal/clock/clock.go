// Package clock drives the session countdown and the round timer.
//
// Timers are not goroutines. A Clock asks its Scheduler to deliver a Tick after
// a delay; the receiver hands the Tick back through Accept and Rearm. Every Tick
// carries the epoch that was current when it was scheduled, and Stop or Start
// moves the epoch forward, so ticks still in flight from an earlier session are
// recognized and dropped.
package clock

import (
	"fmt"
	"time"
)

// SessionPeriod is the countdown resolution.
const SessionPeriod = time.Second

// Kind names one of the two timers.
type Kind uint8

// Timer kinds.
const (
	SessionTimer Kind = iota
	RoundTimer
)

func (k Kind) String() string {
	switch k {
	case SessionTimer:
		return "session"
	case RoundTimer:
		return "round"
	default:
		return fmt.Sprintf("timer(%d)", uint8(k))
	}
}

// Tick is one timer firing.
type Tick struct {
	Kind  Kind
	Epoch uint64
}

// Scheduler delivers tick after delay. Delivery must go through the same
// serialized event loop that handles input.
type Scheduler interface {
	Schedule(delay time.Duration, tick Tick)
}

// Clock owns the timer identities of the active session.
type Clock struct {
	sched       Scheduler
	epoch       uint64
	running     bool
	roundPeriod time.Duration
}

// New returns a stopped Clock.
func New(sched Scheduler) *Clock {
	return &Clock{sched: sched}
}

// Start invalidates all outstanding ticks and arms both timers.
func (c *Clock) Start(roundPeriod time.Duration) uint64 {
	c.epoch++
	c.running = true
	c.roundPeriod = roundPeriod
	c.sched.Schedule(SessionPeriod, Tick{Kind: SessionTimer, Epoch: c.epoch})
	c.sched.Schedule(roundPeriod, Tick{Kind: RoundTimer, Epoch: c.epoch})
	return c.epoch
}

// Stop invalidates all outstanding ticks.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.epoch++
}

// Accept reports whether tick belongs to the running epoch.
func (c *Clock) Accept(tick Tick) bool {
	return c.running && tick.Epoch == c.epoch
}

// Rearm schedules the next firing of the timer that produced tick.
func (c *Clock) Rearm(tick Tick) {
	if !c.Accept(tick) {
		return
	}
	c.sched.Schedule(c.Period(tick.Kind), tick)
}

// Period returns the repeat interval of a timer.
func (c *Clock) Period(kind Kind) time.Duration {
	if kind == RoundTimer {
		return c.roundPeriod
	}
	return SessionPeriod
}

// Epoch returns the current epoch.
func (c *Clock) Epoch() uint64 {
	return c.epoch
}

// Running reports whether timers are armed.
func (c *Clock) Running() bool {
	return c.running
}
