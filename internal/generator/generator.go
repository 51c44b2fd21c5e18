// Package generator places the circles of a round.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/reflexrush/internal/model"
)

// Generator produces randomized rounds from an owned random source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Rand exposes the underlying source so callers can share one sequence.
func (g *Generator) Rand() *rand.Rand {
	return g.rnd
}

// Generate places count circles using the Generator's source.
func (g *Generator) Generate(bounds model.Rect, circleSize, count int) ([]model.Target, error) {
	return Generate(g.rnd, bounds, circleSize, count)
}

// Validate checks that bounds can hold count circles of circleSize.
func Validate(bounds model.Rect, circleSize, count int) error {
	if circleSize < 0 {
		return fmt.Errorf("%w: circle size %d is negative", model.ErrConfiguration, circleSize)
	}
	if count < 1 {
		return fmt.Errorf("%w: targets per round must be >= 1, got %d", model.ErrConfiguration, count)
	}
	if bounds.Width <= circleSize || bounds.Height <= circleSize {
		return fmt.Errorf("%w: play area %dx%d leaves no room for circle size %d",
			model.ErrConfiguration, bounds.Width, bounds.Height, circleSize)
	}
	return nil
}

// Generate picks one target index, then draws a top-left corner for each
// circle so that it stays inside bounds. Circles may overlap.
func Generate(rnd *rand.Rand, bounds model.Rect, circleSize, count int) ([]model.Target, error) {
	if err := Validate(bounds, circleSize, count); err != nil {
		return nil, err
	}
	targetIndex := rnd.Intn(count)
	spanX := bounds.Width - circleSize + 1
	spanY := bounds.Height - circleSize + 1
	targets := make([]model.Target, 0, count)
	for i := 0; i < count; i++ {
		x := rnd.Intn(spanX)
		y := rnd.Intn(spanY)
		targets = append(targets, model.Target{
			X:        x,
			Y:        y,
			Diameter: circleSize,
			IsTarget: i == targetIndex,
		})
	}
	return targets, nil
}
