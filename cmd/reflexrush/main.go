// Package main provides the CLI entrypoint for reflexrush.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/reflexrush/internal/config"
	"github.com/verte-zerg/reflexrush/internal/engine"
	"github.com/verte-zerg/reflexrush/internal/generator"
	"github.com/verte-zerg/reflexrush/internal/model"
	"github.com/verte-zerg/reflexrush/internal/stats"
	"github.com/verte-zerg/reflexrush/internal/store"
	"github.com/verte-zerg/reflexrush/internal/tui"
)

const defaultDifficulty = "medium"

var (
	gameDifficulty string
	gameDuration   int
	gameTargets    int
	gameCircleSize int
	gameWidth      int
	gameHeight     int
	gameSeed       int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reflexrush",
		Short:         "Timed reflex-click minigame for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGameCmd,
	}

	rootCmd.Flags().StringVar(&gameDifficulty, "difficulty", defaultDifficulty, "starting difficulty (easy, medium, hard)")
	rootCmd.Flags().IntVar(&gameDuration, "duration", engine.DefaultSessionSeconds, "session length in seconds")
	rootCmd.Flags().IntVar(&gameTargets, "targets", engine.DefaultTargetsPerRound, "circles per round, target included")
	rootCmd.Flags().IntVar(&gameCircleSize, "circle-size", engine.DefaultCircleSize, "circle diameter in play-area units")
	rootCmd.Flags().IntVar(&gameWidth, "width", engine.DefaultWidth, "play-area width")
	rootCmd.Flags().IntVar(&gameHeight, "height", engine.DefaultHeight, "play-area height")
	rootCmd.Flags().Int64Var(&gameSeed, "seed", 0, "random seed (0 = time-based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRulesCmd())

	return rootCmd
}

// resolveGameConfig applies the config file under any flags not set explicitly.
func resolveGameConfig(cmd *cobra.Command, fileCfg config.FileConfig) (engine.Config, model.Difficulty, error) {
	applyStringConfig(cmd, "difficulty", &gameDifficulty, fileCfg.Game.Difficulty)
	applyIntConfig(cmd, "duration", &gameDuration, fileCfg.Game.Duration)
	applyIntConfig(cmd, "targets", &gameTargets, fileCfg.Game.Targets)
	applyIntConfig(cmd, "circle-size", &gameCircleSize, fileCfg.Game.CircleSize)
	applyIntConfig(cmd, "width", &gameWidth, fileCfg.Game.Width)
	applyIntConfig(cmd, "height", &gameHeight, fileCfg.Game.Height)
	applyInt64Config(cmd, "seed", &gameSeed, fileCfg.Game.Seed)

	cfg := engine.Config{
		Bounds:          model.Rect{Width: gameWidth, Height: gameHeight},
		CircleSize:      gameCircleSize,
		TargetsPerRound: gameTargets,
		SessionSeconds:  gameDuration,
	}
	difficulty, err := model.ParseDifficulty(gameDifficulty)
	if err != nil {
		return engine.Config{}, "", err
	}
	if err := validateConfig(cfg); err != nil {
		return engine.Config{}, "", err
	}
	return cfg, difficulty, nil
}

func runGameCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, difficulty, err := resolveGameConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("reflexrush needs an interactive terminal")
	}

	envCfg, err := config.LoadEnv(".env")
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger(envCfg.LogFile, envCfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	st, err := store.Open(envCfg.Journal)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close journal: %v\n", cerr)
		}
	}()

	logger.Info("starting reflexrush",
		"difficulty", difficulty,
		"duration", cfg.SessionSeconds,
		"targets", cfg.TargetsPerRound,
		"seed", gameSeed,
	)
	game := tui.NewModel(cfg, newRand(gameSeed), st, difficulty, logger)
	program := tea.NewProgram(game, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	summary, ok := game.Summary()
	if !ok {
		return nil
	}
	return printSummary(cmd.OutOrStdout(), st, summary)
}

func printSummary(w io.Writer, st *store.Store, summary model.Summary) error {
	if err := stats.RenderSummary(w, summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	b, err := st.Breakdown(context.Background(), summary.SessionID)
	if err != nil {
		logErrf("failed to read journal: %v\n", err)
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderBreakdown(w, b); err != nil {
		return fmt.Errorf("failed to write breakdown: %w", err)
	}
	return nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return generator.New().Rand()
	}
	return generator.NewSeeded(seed).Rand()
}

func openLogger(path string, level slog.Level) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show how to play",
		Args:  cobra.NoArgs,
		RunE:  runRulesCmd,
	}
}

func runRulesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	seconds := engine.DefaultSessionSeconds
	if fileCfg.Game.Duration != nil && *fileCfg.Game.Duration > 0 {
		seconds = *fileCfg.Game.Duration
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), tui.Rules(seconds)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# reflexrush configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# difficulty = %q    # easy, medium or hard
# duration = %d          # Session length in seconds
# targets = %d            # Circles per round, target included
# circle-size = %d       # Circle diameter in play-area units
# width = %d            # Play-area width
# height = %d           # Play-area height
# seed = 0               # Random seed (0 = time-based)
`,
		defaultDifficulty,
		engine.DefaultSessionSeconds,
		engine.DefaultTargetsPerRound,
		engine.DefaultCircleSize,
		engine.DefaultWidth,
		engine.DefaultHeight,
	)
}

func validateConfig(cfg engine.Config) error {
	if cfg.SessionSeconds <= 0 {
		return fmt.Errorf("%w: --duration must be > 0", model.ErrConfiguration)
	}
	if cfg.TargetsPerRound < 1 {
		return fmt.Errorf("%w: --targets must be >= 1", model.ErrConfiguration)
	}
	if cfg.CircleSize < 0 {
		return fmt.Errorf("%w: --circle-size must be >= 0", model.ErrConfiguration)
	}
	if err := generator.Validate(cfg.Bounds, cfg.CircleSize, cfg.TargetsPerRound); err != nil {
		if errors.Is(err, model.ErrConfiguration) {
			return fmt.Errorf("invalid play area: %w", err)
		}
		return err
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
