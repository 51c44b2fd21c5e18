package tui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/reflexrush/internal/model"
)

// Rules returns the instructions screen text.
func Rules(sessionSeconds int) string {
	lines := []string{
		"Welcome to Reflex Rush!",
		"",
		"Objective:",
		"Click the RED circle as quickly and accurately as you can.",
		"Avoid clicking the gray circles or missing entirely.",
		fmt.Sprintf("You have %d seconds to score as much as possible!", sessionSeconds),
		"",
		"Difficulty levels (how long each set of circles stays up):",
	}
	for _, d := range model.Difficulties {
		lines = append(lines, fmt.Sprintf("  %-6s %.1f seconds", d.Label()+":", d.RoundDelay().Seconds()))
	}
	return strings.Join(lines, "\n")
}
