package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
)

func TestSnapshot(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	data := canvas.Default()
	data.Settings.GridEnabled = false
	data.Widgets = []canvas.Widget{
		{ID: "a", Type: canvas.TypeMarkdown, Content: "# Notes", Position: grid.Position{X: 0, Y: 0}, Size: grid.Size{W: 6, H: 3}},
		{ID: "b", Type: canvas.TypeTodo, Content: "[]", Position: grid.Position{X: 6, Y: 1}, Size: grid.Size{W: 6, H: 4}},
	}

	out := Snapshot(data, grid.Default(), "dark", 48)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5 (one per used row)", len(lines))
	}
	if !strings.Contains(lines[0], "Notes") {
		t.Errorf("first row should hold the markdown title, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Todo List") {
		t.Errorf("second row should hold the todo title, got %q", lines[1])
	}

	data.Settings.ShowHeaderImage = true
	data.Widgets = nil
	out = Snapshot(data, grid.Default(), "no-such-theme", 48)
	lines = strings.Split(out, "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "header") {
		t.Errorf("header-only canvas = %q", out)
	}
}
