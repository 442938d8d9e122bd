package tui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/tablero/internal/canvas"
)

// widgetLines returns the text drawn inside a widget: its title, then a
// plain-text rendition of the content.
func widgetLines(w canvas.Widget) []string {
	lines := []string{w.Title()}
	switch w.Type {
	case canvas.TypeTodo:
		todos, err := canvas.ParseTodos(w.Content)
		if err != nil {
			return append(lines, "(invalid content)")
		}
		done := 0
		for _, t := range todos {
			if t.Completed {
				done++
			}
		}
		lines[0] = fmt.Sprintf("%s %d/%d", lines[0], done, len(todos))
		for _, t := range todos {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			lines = append(lines, mark+" "+t.Text)
		}

	case canvas.TypeKanban:
		board, err := canvas.ParseKanban(w.Content)
		if err != nil {
			return append(lines, "(invalid content)")
		}
		for _, col := range board.Columns {
			lines = append(lines, fmt.Sprintf("%s (%d)", col.Title, len(col.Cards)))
			for _, card := range col.Cards {
				lines = append(lines, "  - "+card.Content)
			}
		}

	case canvas.TypePhoto:
		if url := strings.TrimSpace(w.Content); url != "" {
			lines = append(lines, "image: "+url)
		}

	case canvas.TypeMusic:
		if embed, err := canvas.MusicEmbedURL(w.Content); err == nil {
			lines = append(lines, "spotify: "+embed)
		}

	default:
		lines = append(lines, bodyLines(w.Content)...)
	}
	return lines
}

// bodyLines returns the content lines after the first non-empty one, with
// markdown heading markers removed.
func bodyLines(content string) []string {
	var out []string
	seenTitle := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !seenTitle {
			seenTitle = trimmed != ""
			continue
		}
		out = append(out, strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
	}
	return out
}
