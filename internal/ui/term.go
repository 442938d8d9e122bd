package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/tablero/internal/canvas"
)

// Color definitions for consistent styling across the CLI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Ids: yellow so prefixes are easy to copy
	colorID = color.New(color.FgYellow)

	// Stats: green for counts
	colorStats = color.New(color.FgGreen)

	// Warnings: red for overlaps and off-grid widgets
	colorWarn = color.New(color.FgRed, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	typeColors = map[canvas.WidgetType]*color.Color{
		canvas.TypeMarkdown: color.New(color.FgCyan),
		canvas.TypeTodo:     color.New(color.FgGreen),
		canvas.TypeKanban:   color.New(color.FgMagenta),
		canvas.TypePhoto:    color.New(color.FgBlue),
		canvas.TypeMusic:    color.New(color.FgHiGreen),
		canvas.TypeBook:     color.New(color.FgHiYellow),
	}
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatID(s string) string {
	return colorID.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatType colors a widget type name.
func formatType(t canvas.WidgetType, s string) string {
	if c, ok := typeColors[t]; ok {
		return c.Sprint(s)
	}
	return s
}
