package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/tui/theme"
	"github.com/javiermolinar/tablero/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg      lipgloss.Color
	colorFg      lipgloss.Color
	colorFgMuted lipgloss.Color
	colorAccent  lipgloss.Color
	colorWarning lipgloss.Color

	// Top bar
	TitleStyle   lipgloss.Style
	TopBarStyle  lipgloss.Style
	BadgeStyle   lipgloss.Style
	BadgeOnStyle lipgloss.Style

	// Canvas
	EmptyCellStyle lipgloss.Style
	HeaderStyle    lipgloss.Style

	// Move and resize preview
	DraftStyle        lipgloss.Style
	DraftTitleStyle   lipgloss.Style
	BlockedStyle      lipgloss.Style
	BlockedTitleStyle lipgloss.Style

	// Footer
	StatsStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal
	ModalBgColor     lipgloss.Color
	Modal            view.ModalStyles
	ModalInputStyle  lipgloss.Style
	ModalCursorStyle lipgloss.Style
	ModalPlaceholder lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{
		palette:      palette,
		colorBg:      palette.Bg,
		colorFg:      palette.Fg,
		colorFgMuted: palette.FgMuted,
		colorAccent:  palette.Accent,
		colorWarning: palette.Warning,
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.TopBarStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.BadgeStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(palette.BgHighlight).
		Padding(0, 1)

	s.BadgeOnStyle = s.BadgeStyle.
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent).
		Bold(true)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(palette.BgHighlight).
		Italic(true)

	// Preview of a widget being moved or resized
	s.DraftStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent)
	s.DraftTitleStyle = s.DraftStyle.Bold(true)

	// Preview that would be rejected (collision or off grid)
	s.BlockedStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnWarning).
		Background(s.colorWarning)
	s.BlockedTitleStyle = s.BlockedStyle.Bold(true)

	s.StatsStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	modalBg := palette.Modal.Bg
	s.ModalBgColor = modalBg
	s.Modal = view.ModalStyles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Modal.Border).
			BorderBackground(modalBg).
			Background(modalBg).
			Foreground(palette.Modal.Text).
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(palette.Modal.Border).
			Background(modalBg),
		Body: lipgloss.NewStyle().
			Foreground(palette.Modal.Text).
			Background(modalBg),
		Hint: lipgloss.NewStyle().
			Foreground(palette.Modal.Muted).
			Background(modalBg),
		Option: lipgloss.NewStyle().
			Foreground(palette.Modal.Text).
			Background(modalBg),
		OptionActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(palette.Modal.ReverseText).
			Background(palette.Modal.Highlight),
	}

	s.ModalInputStyle = lipgloss.NewStyle().
		Foreground(palette.Modal.Text).
		Background(palette.Modal.Panel)
	s.ModalCursorStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent)
	s.ModalPlaceholder = lipgloss.NewStyle().
		Foreground(palette.Modal.Muted).
		Background(palette.Modal.Panel)

	return s
}

// WidgetStyles returns the body and title styles for a widget.
func (s *Styles) WidgetStyles(t canvas.WidgetType, selected bool) (body, title lipgloss.Style) {
	colors := s.palette.Widget(string(t))
	bg := colors.Bg
	if selected {
		bg = colors.BgAlt
	}
	body = lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(bg)
	title = body.
		Foreground(colors.Border).
		Bold(true)
	if selected {
		title = title.Underline(true)
	}
	return body, title
}
