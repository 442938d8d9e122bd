package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/tui/theme"
)

func testTheme() *theme.Theme {
	return &theme.Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#ff00ff",
		Todo:        "#00ff00",
	}
}

func assertBg(t *testing.T, name string, style lipgloss.Style, want string) {
	t.Helper()
	bg, ok := style.GetBackground().(lipgloss.Color)
	if !ok {
		t.Fatalf("%s background type = %T, want lipgloss.Color", name, style.GetBackground())
	}
	if bg != lipgloss.Color(want) {
		t.Fatalf("%s background = %q, want %q", name, bg, want)
	}
}

func TestStylesBackgroundCoverage(t *testing.T) {
	th := testTheme()
	styles := NewStyles(th)

	assertBg(t, "EmptyCellStyle", styles.EmptyCellStyle, th.Bg)
	assertBg(t, "HeaderStyle", styles.HeaderStyle, th.BgHighlight)
	assertBg(t, "StatsStyle", styles.StatsStyle, th.Bg)
	assertBg(t, "HelpStyle", styles.HelpStyle, th.Bg)
	assertBg(t, "BlockedStyle", styles.BlockedStyle, th.Warning)
	assertBg(t, "DraftStyle", styles.DraftStyle, th.Accent)
}

func TestWidgetStylesSelection(t *testing.T) {
	th := testTheme()
	styles := NewStyles(th)
	colors := theme.NewPalette(th).Widget("todo")

	body, title := styles.WidgetStyles(canvas.TypeTodo, false)
	assertBg(t, "body", body, string(colors.Bg))
	if fg, _ := title.GetForeground().(lipgloss.Color); fg != colors.Border {
		t.Errorf("title foreground = %q, want %q", fg, colors.Border)
	}
	if title.GetUnderline() {
		t.Error("unselected title should not be underlined")
	}

	body, title = styles.WidgetStyles(canvas.TypeTodo, true)
	assertBg(t, "selected body", body, string(colors.BgAlt))
	if !title.GetUnderline() {
		t.Error("selected title should be underlined")
	}
}
