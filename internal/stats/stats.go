// Package stats contains scoring calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/reflexrush/internal/model"
)

// Accuracy returns the floored percentage of attempts that scored.
// With no attempts the player is considered perfect.
func Accuracy(score, attempts int) int {
	if attempts <= 0 {
		return 100
	}
	return score * 100 / attempts
}

// Tally counts attempts per kind.
func Tally(log []model.Attempt) map[model.AttemptKind]int {
	counts := make(map[model.AttemptKind]int, len(model.AttemptKinds))
	for _, a := range log {
		counts[a.Kind]++
	}
	return counts
}

// ReactionMetrics returns the mean and fastest reaction over scoring attempts.
func ReactionMetrics(log []model.Attempt) (avg, best time.Duration) {
	var sum time.Duration
	n := 0
	for _, a := range log {
		if !a.Kind.Scored() {
			continue
		}
		sum += a.Reaction
		if n == 0 || a.Reaction < best {
			best = a.Reaction
		}
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / time.Duration(n), best
}

// RenderSummary prints the end-of-session report.
func RenderSummary(w io.Writer, s model.Summary) error {
	if _, err := fmt.Fprintf(w, "Time's up! Final Score: %d | Misses: %d | Accuracy: %d%%\n", s.Score, s.Misses, s.Accuracy); err != nil {
		return err
	}
	headers := []string{"Difficulty", "Rounds", "Attempts", "Avg Reaction", "Best Reaction"}
	rows := [][]string{{
		s.Difficulty.Label(),
		fmt.Sprintf("%d", s.Rounds),
		fmt.Sprintf("%d", s.Attempts),
		FormatReaction(s.AvgReaction),
		FormatReaction(s.BestReaction),
	}}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBreakdown prints per-kind attempt counts.
func RenderBreakdown(w io.Writer, b model.Breakdown) error {
	total := b.Total()
	if total == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded.")
		return err
	}
	headers := []string{"Outcome", "Count", "Share"}
	rightAlign := map[int]bool{1: true, 2: true}
	lines := formatTable(headers, BreakdownRows(b), rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// BreakdownRows formats a breakdown as outcome, count, share rows.
func BreakdownRows(b model.Breakdown) [][]string {
	total := b.Total()
	rows := make([][]string, 0, len(model.AttemptKinds))
	for _, kind := range model.AttemptKinds {
		n := b.Counts[kind]
		share := 0
		if total > 0 {
			share = n * 100 / total
		}
		rows = append(rows, []string{kind.String(), fmt.Sprintf("%d", n), fmt.Sprintf("%d%%", share)})
	}
	return rows
}

// FormatReaction renders a reaction time in milliseconds, or "-" when unknown.
func FormatReaction(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
