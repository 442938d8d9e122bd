package view

import "github.com/charmbracelet/lipgloss"

// FooterState holds the lines rendered below the canvas.
type FooterState struct {
	InnerW      int
	StatsText   string
	StatusText  string
	HelpText    string
	StatsStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// FooterHeight is the number of lines RenderFooter produces.
const FooterHeight = 3

// RenderFooter renders the stats, status, and help lines.
func RenderFooter(state FooterState) string {
	s := footerLine(state.InnerW, state.StatsStyle, state.StatsText) + "\n" +
		footerLine(state.InnerW, state.StatusStyle, state.StatusText) + "\n" +
		footerLine(state.InnerW, state.HelpStyle, state.HelpText)
	return PlaceBox(state.InnerW, FooterHeight, lipgloss.Bottom, s, state.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(width-frameW, 0)
	return style.Width(contentWidth).Render(Truncate(content, contentWidth))
}
