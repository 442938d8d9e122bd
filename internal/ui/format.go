package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/summary"
)

// shortIDLen is how much of a widget id the CLI prints. Any unique prefix is
// accepted back.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func formatPosition(p grid.Position) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func formatSize(s grid.Size) string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

// widgetDetail returns a one-line description of the widget's content.
func widgetDetail(w canvas.Widget) string {
	switch w.Type {
	case canvas.TypeTodo:
		items, err := canvas.ParseTodos(w.Content)
		if err != nil {
			return "invalid content"
		}
		done := 0
		for _, it := range items {
			if it.Completed {
				done++
			}
		}
		return fmt.Sprintf("%d/%d done", done, len(items))
	case canvas.TypeKanban:
		board, err := canvas.ParseKanban(w.Content)
		if err != nil {
			return "invalid content"
		}
		cards := 0
		for _, col := range board.Columns {
			cards += len(col.Cards)
		}
		return plural(cards, "card")
	default:
		return ""
	}
}

// printWidgetRow prints a single widget row with consistent formatting.
func printWidgetRow(out io.Writer, w canvas.Widget, maxTitle int) {
	line := fmt.Sprintf("  %s  %s  %-12s %-6s %s",
		formatID(fmt.Sprintf("%-*s", shortIDLen, shortID(w.ID))),
		formatType(w.Type, fmt.Sprintf("%-8s", w.Type)),
		formatPosition(w.Position),
		formatSize(w.Size),
		truncate(w.Title(), maxTitle),
	)
	if d := widgetDetail(w); d != "" {
		line += "  " + formatMuted(d)
	}
	fmt.Fprintln(out, line)
}

// printSummary prints the canvas statistics.
func printSummary(out io.Writer, s *summary.CanvasSummary) {
	fmt.Fprintf(out, "%s  |  Rows used: %s\n",
		formatStats(plural(s.Widgets, "widget")),
		formatStats(fmt.Sprintf("%g", s.RowsUsed)))

	if s.Widgets > 0 {
		parts := make([]string, 0, len(s.ByType))
		for _, t := range s.Types() {
			parts = append(parts, formatType(t, fmt.Sprintf("%s: %d", t, s.ByType[t])))
		}
		fmt.Fprintf(out, "  %s\n", strings.Join(parts, "  "))
	}
	if s.HeaderRows > 0 {
		fmt.Fprintf(out, "  %s\n", formatMuted(fmt.Sprintf("Header reserves %d rows", s.HeaderRows)))
	}

	if s.Todos.Total > 0 {
		fmt.Fprintf(out, "Todos: %s done, %d open\n",
			formatStats(fmt.Sprintf("%d/%d", s.Todos.Completed, s.Todos.Total)), s.Todos.Open())
	}
	if len(s.KanbanCards) > 0 {
		parts := make([]string, 0, len(s.KanbanCards))
		for _, c := range s.KanbanCards {
			parts = append(parts, fmt.Sprintf("%s %d", c.Title, c.Cards))
		}
		fmt.Fprintf(out, "Kanban: %s\n", strings.Join(parts, "  |  "))
	}

	for _, pair := range s.Collisions {
		fmt.Fprintf(out, "%s %s and %s\n", formatWarn("Overlap:"), formatID(shortID(pair[0])), formatID(shortID(pair[1])))
	}
	for _, id := range s.Overflowing {
		fmt.Fprintf(out, "%s %s extends past the right edge\n", formatWarn("Off grid:"), formatID(shortID(id)))
	}
	for _, id := range s.Invalid {
		fmt.Fprintf(out, "%s %s has unreadable content\n", formatWarn("Invalid:"), formatID(shortID(id)))
	}
}

// printSettings prints the canvas settings in the order they are stored.
func printSettings(out io.Writer, s canvas.Settings) {
	header := "(none)"
	if s.HeaderImage != nil {
		header = *s.HeaderImage
	}
	fmt.Fprintf(out, "  show_header_image = %t\n", s.ShowHeaderImage)
	fmt.Fprintf(out, "  header_image      = %s\n", header)
	fmt.Fprintf(out, "  snap_to_grid      = %t\n", s.SnapToGrid)
	fmt.Fprintf(out, "  collision         = %s\n", s.Collision())
	fmt.Fprintf(out, "  grid_enabled      = %t\n", s.GridEnabled)
	fmt.Fprintf(out, "  grid_size         = %d\n", s.GridSize)
	fmt.Fprintf(out, "  background_color  = %s\n", s.BackgroundColor)
	fmt.Fprintf(out, "  zoom_level        = %g\n", s.ZoomLevel)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
