package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/claude/mapty/internal/models"
)

var (
	colorOrange = lipgloss.Color("#ffb545")
	colorGreen  = lipgloss.Color("#00c46a")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
)

var (
	styleHeader  = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	styleRunning = lipgloss.NewStyle().Foreground(colorGreen)
	styleCycling = lipgloss.NewStyle().Foreground(colorOrange)
	styleAlert   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

// typeStyle matches the list's colour coding: green for running, orange for
// cycling.
func typeStyle(t models.Type) lipgloss.Style {
	if t == models.TypeCycling {
		return styleCycling
	}
	return styleRunning
}

// workoutRow renders one workout as table cells.
func workoutRow(w models.Workout) []string {
	rateUnit, extraUnit := "min/km", "spm"
	if w.Type == models.TypeCycling {
		rateUnit, extraUnit = "km/h", "m"
	}
	return []string{
		styleDim.Render(w.ID),
		typeStyle(w.Type).Render(w.Type.Icon() + " " + w.Description),
		fmt.Sprintf("%g km", w.Distance),
		fmt.Sprintf("%g min", w.Duration),
		fmt.Sprintf("%.1f %s", w.Rate(), rateUnit),
		fmt.Sprintf("%g %s", w.Extra(), extraUnit),
		fmt.Sprintf("%.4f, %.4f", w.Coords.Lat, w.Coords.Lng),
	}
}

var workoutHeaders = []string{"ID", "WORKOUT", "DISTANCE", "DURATION", "RATE", "CADENCE/ELEV", "COORDS"}

// renderTable renders an aligned table with a header separator line.
// Widths are measured on visible characters so styled cells line up.
func renderTable(headers []string, rows [][]string) string {
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return styleHeader.Render(s) })
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeRow(seps, func(s string) string { return styleDim.Render(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
