package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames.
type ModalStyles struct {
	Frame        lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
	Hint         lipgloss.Style
	Option       lipgloss.Style
	OptionActive lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer hint.
func RenderModalFrame(title, body, hint string, styles ModalStyles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if hint != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Hint.Render(hint))
	}
	return styles.Frame.Render(b.String())
}

// RenderOptions renders one option per line, marking the active one.
func RenderOptions(styles ModalStyles, options []string, active int) string {
	lines := make([]string, len(options))
	for i, opt := range options {
		if i == active {
			lines[i] = styles.OptionActive.Render("› " + opt)
			continue
		}
		lines[i] = styles.Option.Render("  " + opt)
	}
	return strings.Join(lines, "\n")
}
