package generator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/verte-zerg/reflexrush/internal/model"
)

func TestGenerateExactlyOneTarget(t *testing.T) {
	g := NewSeeded(7)
	bounds := model.Rect{Width: 600, Height: 400}
	for i := 0; i < 200; i++ {
		targets, err := g.Generate(bounds, 50, 5)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(targets) != 5 {
			t.Fatalf("expected 5 targets, got %d", len(targets))
		}
		count := 0
		for _, c := range targets {
			if c.IsTarget {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("expected exactly one target, got %d", count)
		}
	}
}

func TestGenerateStaysInBounds(t *testing.T) {
	cases := []struct {
		bounds model.Rect
		size   int
		count  int
	}{
		{model.Rect{Width: 600, Height: 400}, 50, 5},
		{model.Rect{Width: 51, Height: 51}, 50, 3},
		{model.Rect{Width: 10, Height: 300}, 0, 8},
	}
	rnd := rand.New(rand.NewSource(3))
	for _, tc := range cases {
		for i := 0; i < 100; i++ {
			targets, err := Generate(rnd, tc.bounds, tc.size, tc.count)
			if err != nil {
				t.Fatalf("generate %+v: %v", tc, err)
			}
			for _, c := range targets {
				if c.X < 0 || c.X > tc.bounds.Width-tc.size || c.Y < 0 || c.Y > tc.bounds.Height-tc.size {
					t.Fatalf("circle %+v out of bounds %+v", c, tc.bounds)
				}
				if c.Diameter != tc.size {
					t.Fatalf("expected diameter %d, got %d", tc.size, c.Diameter)
				}
			}
		}
	}
}

func TestGenerateSeededIsReproducible(t *testing.T) {
	bounds := model.Rect{Width: 600, Height: 400}
	const seed = 20240601

	got, err := Generate(rand.New(rand.NewSource(seed)), bounds, 50, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	again, err := Generate(rand.New(rand.NewSource(seed)), bounds, 50, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Replay the documented draw order: target index, then x and y per circle.
	ref := rand.New(rand.NewSource(seed))
	wantIndex := ref.Intn(5)
	for i := range got {
		wantX := ref.Intn(600 - 50 + 1)
		wantY := ref.Intn(400 - 50 + 1)
		if got[i].X != wantX || got[i].Y != wantY {
			t.Fatalf("circle %d at (%d,%d), want (%d,%d)", i, got[i].X, got[i].Y, wantX, wantY)
		}
		if got[i].IsTarget != (i == wantIndex) {
			t.Fatalf("circle %d target flag %v, want index %d", i, got[i].IsTarget, wantIndex)
		}
		if got[i] != again[i] {
			t.Fatalf("same seed produced different circle %d: %+v vs %+v", i, got[i], again[i])
		}
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		bounds model.Rect
		size   int
		count  int
	}{
		{"width equals size", model.Rect{Width: 50, Height: 400}, 50, 5},
		{"height too small", model.Rect{Width: 600, Height: 20}, 50, 5},
		{"no circles", model.Rect{Width: 600, Height: 400}, 50, 0},
		{"negative size", model.Rect{Width: 600, Height: 400}, -1, 5},
	}
	for _, tc := range cases {
		_, err := Generate(rand.New(rand.NewSource(1)), tc.bounds, tc.size, tc.count)
		if !errors.Is(err, model.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", tc.name, err)
		}
	}
}
