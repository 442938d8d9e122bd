package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func testTheme(bg, fg string) *Theme {
	t := &Theme{
		Bg:          bg,
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          fg,
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#888888",
		Markdown:    "#112233",
		Todo:        "#40a02b",
	}
	t.applyDefaults()
	return t
}

func TestNewPalette_WidgetShades(t *testing.T) {
	base := testTheme("#101010", "#ffffff")
	palette := NewPalette(base)

	md := palette.Widget("markdown")
	if md.Border != lipgloss.Color(base.Markdown) {
		t.Errorf("Border = %q, want %q", md.Border, base.Markdown)
	}
	if want := scaleColor(base.Markdown, 0.35, 30); md.Bg != lipgloss.Color(want) {
		t.Errorf("Bg = %q, want %q", md.Bg, want)
	}
	if want := alternateShade(string(md.Bg), false); md.BgAlt != lipgloss.Color(want) {
		t.Errorf("BgAlt = %q, want %q", md.BgAlt, want)
	}
	if md.Text != lipgloss.Color(base.Fg) {
		t.Errorf("Text = %q, want light text on dark body", md.Text)
	}

	// Types without an explicit color use the accent
	if palette.Widget("book").Border != lipgloss.Color(base.Accent) {
		t.Errorf("book border = %q, want accent", palette.Widget("book").Border)
	}
	if palette.Widget("clock").Border != palette.Accent {
		t.Error("unknown widget type should use accent")
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#ff00ff",
	}

	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
	if palette.Modal.Backdrop != lipgloss.Color(base.BgSelection) {
		t.Fatalf("Modal.Backdrop = %q, want %q", palette.Modal.Backdrop, base.BgSelection)
	}
}

func TestNewPalette_LightThemeTintsWidgets(t *testing.T) {
	base := testTheme("#f5f5f5", "#222222")
	palette := NewPalette(base)

	bg := string(palette.Widget("todo").Bg)
	if relativeLuminance(bg) <= relativeLuminance(base.Todo) {
		t.Fatalf("todo Bg luminance = %f, want greater than accent", relativeLuminance(bg))
	}
}

func TestScaleColor(t *testing.T) {
	tests := []struct {
		hex    string
		factor float64
		floor  int
		want   string
	}{
		{"#808080", 0.5, 0, "#404040"},
		{"#101010", 0.5, 30, "#1e1e1e"},
		{"red", 0.5, 0, "red"},
	}
	for _, tt := range tests {
		if got := scaleColor(tt.hex, tt.factor, tt.floor); got != tt.want {
			t.Errorf("scaleColor(%q, %v, %d) = %q, want %q", tt.hex, tt.factor, tt.floor, got, tt.want)
		}
	}
}

func TestBlendColors(t *testing.T) {
	if got := blendColors("#000000", "#ffffff", 0.5); got != "#7f7f7f" {
		t.Errorf("blend = %q, want #7f7f7f", got)
	}
	if got := blendColors("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("ratio should clamp to 1, got %q", got)
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}
