package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/verte-zerg/reflexrush/internal/config"
	"github.com/verte-zerg/reflexrush/internal/engine"
	"github.com/verte-zerg/reflexrush/internal/model"
	"github.com/verte-zerg/reflexrush/internal/store"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*engine.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*engine.Config) {}},
		{name: "zero duration", mutate: func(c *engine.Config) { c.SessionSeconds = 0 }, wantErr: true},
		{name: "no circles", mutate: func(c *engine.Config) { c.TargetsPerRound = 0 }, wantErr: true},
		{name: "negative size", mutate: func(c *engine.Config) { c.CircleSize = -1 }, wantErr: true},
		{name: "area too small", mutate: func(c *engine.Config) { c.Bounds = model.Rect{Width: 50, Height: 400} }, wantErr: true},
		{name: "single circle", mutate: func(c *engine.Config) { c.TargetsPerRound = 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := engine.DefaultConfig()
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			if tc.wantErr {
				if !errors.Is(err, model.ErrConfiguration) {
					t.Fatalf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveGameConfigPrecedence(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("duration", "30"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileCfg := config.FileConfig{Game: config.GameConfig{
		Difficulty: strPtr("hard"),
		Duration:   intPtr(45),
		Targets:    intPtr(7),
	}}

	cfg, difficulty, err := resolveGameConfig(cmd, fileCfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.SessionSeconds != 30 {
		t.Fatalf("expected flag to win for duration, got %d", cfg.SessionSeconds)
	}
	if cfg.TargetsPerRound != 7 {
		t.Fatalf("expected file value for targets, got %d", cfg.TargetsPerRound)
	}
	if difficulty != model.Hard {
		t.Fatalf("expected hard from file, got %s", difficulty)
	}
	if cfg.CircleSize != engine.DefaultCircleSize || cfg.Bounds.Width != engine.DefaultWidth {
		t.Fatalf("expected defaults for unset values, got %+v", cfg)
	}
}

func TestResolveGameConfigRejectsUnknownDifficulty(t *testing.T) {
	cmd := newRootCmd()
	_, _, err := resolveGameConfig(cmd, config.FileConfig{Game: config.GameConfig{Difficulty: strPtr("insane")}})
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Game.Duration != nil {
		t.Fatalf("expected template values to be commented out")
	}
	if !strings.Contains(defaultConfigTemplate(), "[game]") {
		t.Fatalf("expected [game] section")
	}
}

func TestPrintSummary(t *testing.T) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	id := uuid.New()
	start := time.Unix(1700000000, 0)
	if err := st.BeginSession(ctx, id, model.Easy, start); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := st.RecordAttempt(ctx, id, model.Attempt{Seq: 1, Kind: model.Hit, TargetIndex: 0, At: start, Reaction: 300 * time.Millisecond}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := st.RecordAttempt(ctx, id, model.Attempt{Seq: 2, Kind: model.Timeout, TargetIndex: -1, At: start}); err != nil {
		t.Fatalf("record: %v", err)
	}

	var buf bytes.Buffer
	summary := model.Summary{SessionID: id, Difficulty: model.Easy, Score: 1, Misses: 1, Attempts: 2, Accuracy: 50, Rounds: 2}
	if err := printSummary(&buf, st, summary); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Time's up! Final Score: 1 | Misses: 1 | Accuracy: 50%", "hit", "timeout", "50%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}
