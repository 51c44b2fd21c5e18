package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/reflexrush/internal/model"
)

// canvas maps terminal cells onto the logical play area. Each cell stands for
// the logical point at its center, both when drawing and when clicking.
type canvas struct {
	bounds model.Rect
	cols   int
	rows   int
}

func (c canvas) valid() bool {
	return c.cols > 0 && c.rows > 0 && c.bounds.Width > 0 && c.bounds.Height > 0
}

// point returns the logical coordinates of cell (col, row).
func (c canvas) point(col, row int) (int, int) {
	x := (2*col + 1) * c.bounds.Width / (2 * c.cols)
	y := (2*row + 1) * c.bounds.Height / (2 * c.rows)
	return x, y
}

// cell returns the cell that holds logical point (x, y).
func (c canvas) cell(x, y int) (int, int) {
	return x * c.cols / c.bounds.Width, y * c.rows / c.bounds.Height
}

// resolve returns the logical point a cell stands for. A cell whose center
// misses every circle but that holds a circle's center stands for that center,
// so circles smaller than a cell stay visible and clickable.
func (c canvas) resolve(targets []model.Target, col, row int) (int, int) {
	x, y := c.point(col, row)
	if cellKind(targets, x, y) >= 0 {
		return x, y
	}
	for _, t := range targets {
		if t.Diameter <= 0 {
			continue
		}
		cx, cy := t.Center()
		if tc, tr := c.cell(cx, cy); tc == col && tr == row {
			return cx, cy
		}
	}
	return x, y
}

func (c canvas) contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

// circleGlyph falls back to ASCII where the terminal would draw the disc two cells wide.
func circleGlyph() string {
	const disc = "●"
	if runewidth.StringWidth(disc) == 1 {
		return disc
	}
	return "O"
}

// cellKind returns which circle is drawn at a point: -1 for none, else the
// index of the first circle in generation order that contains it.
func cellKind(targets []model.Target, x, y int) int {
	for i, t := range targets {
		if t.ContainsPoint(x, y) {
			return i
		}
	}
	return -1
}

// render rasterizes the round into rows of styled text.
func (c canvas) render(targets []model.Target, targetStyle, decoyStyle lipgloss.Style) string {
	if !c.valid() {
		return ""
	}
	glyph := circleGlyph()
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		runStyle := -2
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			switch runStyle {
			case -1:
				b.WriteString(strings.Repeat(" ", runLen))
			case 1:
				b.WriteString(targetStyle.Render(strings.Repeat(glyph, runLen)))
			default:
				b.WriteString(decoyStyle.Render(strings.Repeat(glyph, runLen)))
			}
			runLen = 0
		}
		for col := 0; col < c.cols; col++ {
			x, y := c.resolve(targets, col, row)
			style := -1
			if idx := cellKind(targets, x, y); idx >= 0 {
				style = 0
				if targets[idx].IsTarget {
					style = 1
				}
			}
			if style != runStyle {
				flush()
				runStyle = style
			}
			runLen++
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}
