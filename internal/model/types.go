// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrConfiguration reports a configuration that cannot produce a playable session.
var ErrConfiguration = errors.New("configuration error")

// Rect is the play area. Its origin is the top-left corner at (0, 0).
type Rect struct {
	Width  int
	Height int
}

// Target is one circular hit region.
type Target struct {
	X        int
	Y        int
	Diameter int
	IsTarget bool
}

// Center returns the integer center of the circle.
func (t Target) Center() (int, int) {
	return t.X + t.Diameter/2, t.Y + t.Diameter/2
}

// Radius returns the integer radius of the circle.
func (t Target) Radius() int {
	return t.Diameter / 2
}

// ContainsPoint reports whether (px, py) lies inside the circle or on its edge.
// A circle with no diameter contains nothing.
func (t Target) ContainsPoint(px, py int) bool {
	if t.Diameter <= 0 {
		return false
	}
	cx, cy := t.Center()
	dx := int64(px - cx)
	dy := int64(py - cy)
	r := int64(t.Radius())
	return dx*dx+dy*dy <= r*r
}

// Round is one set of displayed circles.
type Round struct {
	Seq       int
	Targets   []Target
	SpawnedAt time.Time
	// Consumed is set when the target was hit before the round timer fired.
	Consumed bool
}

// TargetIndex returns the index of the designated target, or -1.
func (r Round) TargetIndex() int {
	for i, t := range r.Targets {
		if t.IsTarget {
			return i
		}
	}
	return -1
}

// Difficulty selects the round timer period.
type Difficulty string

// Difficulty presets.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the presets in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty parses a preset name. An empty value selects Medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Medium, nil
	case string(Easy):
		return Easy, nil
	case string(Medium):
		return Medium, nil
	case string(Hard):
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (want easy, medium or hard)", ErrConfiguration, s)
	}
}

// RoundDelay returns how long a round stays up before it counts as missed.
func (d Difficulty) RoundDelay() time.Duration {
	switch d {
	case Easy:
		return 2500 * time.Millisecond
	case Hard:
		return 1000 * time.Millisecond
	default:
		return 1500 * time.Millisecond
	}
}

// Label returns the capitalized preset name.
func (d Difficulty) Label() string {
	if d == "" {
		d = Medium
	}
	s := string(d)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Phase is the engine state.
type Phase int

// Engine phases.
const (
	Idle Phase = iota
	Running
	Ended
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SessionID identifies one played session.
type SessionID = uuid.UUID

// AttemptKind classifies a counted attempt.
type AttemptKind int

// Attempt kinds. Only Hit increments the score; the rest are misses.
const (
	Hit AttemptKind = iota
	DecoyHit
	EmptyClick
	Timeout
)

// AttemptKinds lists every kind in display order.
var AttemptKinds = []AttemptKind{Hit, DecoyHit, EmptyClick, Timeout}

func (k AttemptKind) String() string {
	switch k {
	case Hit:
		return "hit"
	case DecoyHit:
		return "decoy"
	case EmptyClick:
		return "empty"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseAttemptKind is the inverse of AttemptKind.String.
func ParseAttemptKind(s string) (AttemptKind, error) {
	for _, k := range AttemptKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown attempt kind %q", s)
}

// Scored reports whether the attempt counts toward the score.
func (k AttemptKind) Scored() bool {
	return k == Hit
}

// Attempt is one processed click or timeout that changed the counters.
type Attempt struct {
	Seq         int
	Kind        AttemptKind
	X           int
	Y           int
	TargetIndex int
	RoundSeq    int
	At          time.Time
	Reaction    time.Duration
}

// Stats is a read-only snapshot of the session counters.
type Stats struct {
	Phase            Phase
	Difficulty       Difficulty
	Score            int
	Misses           int
	Attempts         int
	Accuracy         int
	SecondsRemaining int
	SessionSeconds   int
}

// Summary holds the frozen counters of a finished session.
type Summary struct {
	SessionID    SessionID
	Difficulty   Difficulty
	Score        int
	Misses       int
	Attempts     int
	Accuracy     int
	Hits         int
	DecoyHits    int
	EmptyClicks  int
	Timeouts     int
	Rounds       int
	AvgReaction  time.Duration
	BestReaction time.Duration
	StartedAt    time.Time
	EndedAt      time.Time
}

// Breakdown counts journaled attempts per kind.
type Breakdown struct {
	Counts      map[AttemptKind]int
	AvgReaction time.Duration
}

// Total returns the number of journaled attempts.
func (b Breakdown) Total() int {
	total := 0
	for _, n := range b.Counts {
		total += n
	}
	return total
}
