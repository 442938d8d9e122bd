package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/summary"
	"github.com/javiermolinar/tablero/internal/tui/view"
)

const minColCells = 2

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	modal := ""
	switch {
	case m.mode == ModeModal && m.modalType != ModalNone:
		modal = m.renderModal()
	case m.help.ShowAll:
		modal = view.RenderModalFrame("Keys", m.help.View(m.keys), "? close", m.styles.Modal)
	}

	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        modal != "",
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.canvasHeight() <= 0 {
		return "Terminal too small"
	}
	if !m.loaded {
		msg := "Loading canvas..."
		if m.statusErr {
			msg = m.statusMsg + " (ctrl+c to quit)"
		}
		return view.PlaceBox(m.width, m.height, lipgloss.Center, msg, m.styles.colorBg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(),
		view.RenderCanvas(m.canvasState()),
		view.RenderFooter(m.footerState()),
	)
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTopBar() string {
	settings := m.data.Settings
	badge := func(label string, on bool) string {
		if on {
			return m.styles.BadgeOnStyle.Render(label)
		}
		return m.styles.BadgeStyle.Render(label)
	}

	parts := []string{
		m.styles.TitleStyle.Render("tablero"),
		badge("snap", settings.SnapToGrid),
		badge("header", settings.ShowHeaderImage),
		badge(string(settings.Collision()), settings.PreventCollision),
		m.styles.TopBarStyle.Render(m.theme.Name),
	}
	switch m.mode {
	case ModeMove:
		parts = append(parts, m.styles.ErrorStyle.Render("MOVE"))
	case ModeResize:
		parts = append(parts, m.styles.ErrorStyle.Render("RESIZE"))
	}
	bar := strings.Join(parts, m.styles.TopBarStyle.Render(" "))
	return view.PlaceBox(m.width, 1, lipgloss.Top, view.Truncate(bar, m.width), m.styles.colorBg)
}

func (m Model) canvasState() view.CanvasState {
	g := m.store.Geometry()
	settings := m.data.Settings

	blocks := make([]view.Block, 0, len(m.data.Widgets)+1)
	editing := m.mode == ModeMove || m.mode == ModeResize
	for i, w := range m.data.Widgets {
		if editing && i == m.selected {
			continue
		}
		body, title := m.styles.WidgetStyles(w.Type, i == m.selected)
		blocks = append(blocks, blockFor(w.Placement(), widgetLines(w), body, title))
	}
	if w, ok := m.selectedWidget(); ok && editing {
		body, title := m.styles.DraftStyle, m.styles.DraftTitleStyle
		if m.draftBlocked() {
			body, title = m.styles.BlockedStyle, m.styles.BlockedTitleStyle
		}
		lines := widgetLines(w)
		lines[0] = fmt.Sprintf("%s (%g, %g) %dx%d", lines[0], m.draft.Position.X, m.draft.Position.Y, m.draft.Size.W, m.draft.Size.H)
		blocks = append(blocks, blockFor(m.draft, lines, body, title))
	}

	return view.CanvasState{
		Width:       m.width,
		Height:      m.canvasHeight(),
		Cols:        g.Cols,
		ColCells:    m.colCells(),
		Offset:      m.offset,
		HeaderRows:  g.HeaderUnits(settings.ShowHeaderImage),
		HeaderLabel: headerLabel(settings),
		HeaderStyle: m.styles.HeaderStyle,
		EmptyStyle:  m.styles.EmptyCellStyle,
		GridDots:    settings.GridEnabled,
		Blocks:      blocks,
	}
}

func blockFor(p grid.Placement, lines []string, body, title lipgloss.Style) view.Block {
	return view.Block{
		X:          p.Position.X,
		Y:          p.Position.Y,
		W:          p.Size.W,
		H:          p.Size.H,
		Lines:      lines,
		Style:      body,
		TitleStyle: title,
	}
}

// draftBlocked reports whether committing the preview would be rejected.
func (m Model) draftBlocked() bool {
	g := m.store.Geometry()
	settings := m.data.Settings
	p := g.NormalizeLayout([]grid.Placement{m.draft}, settings.ShowHeaderImage, settings.SnapToGrid)[0]
	if p.Position.X < 0 || p.Position.Y < 0 || g.Overflows(p) {
		return true
	}
	if settings.Collision() != grid.CollisionPrevent {
		return false
	}
	for _, w := range m.data.Widgets {
		if w.ID != p.ID && grid.Overlaps(p, w.Placement()) {
			return true
		}
	}
	return false
}

func (m Model) footerState() view.FooterState {
	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.ErrorStyle
	}

	helpText := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.mode == ModeMove || m.mode == ModeResize {
		helpText = m.help.ShortHelpView(m.keys.editHelp())
	}

	return view.FooterState{
		InnerW:      m.width,
		StatsText:   statsLine(summary.Summarize(m.data, m.store.Geometry())),
		StatusText:  m.statusMsg,
		HelpText:    helpText,
		StatsStyle:  m.styles.StatsStyle,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.colorBg,
	}
}

func statsLine(s *summary.CanvasSummary) string {
	parts := []string{
		fmt.Sprintf("%d widgets", s.Widgets),
		fmt.Sprintf("%g rows", s.RowsUsed),
	}
	if s.Todos.Total > 0 {
		parts = append(parts, fmt.Sprintf("todos %d/%d", s.Todos.Completed, s.Todos.Total))
	}
	if n := len(s.Collisions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overlapping", n))
	}
	if n := len(s.Overflowing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d off grid", n))
	}
	if n := len(s.Invalid); n > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", n))
	}
	return strings.Join(parts, " · ")
}

// canvasHeight is the number of grid rows that fit between the top bar and footer.
func (m Model) canvasHeight() int {
	return max(m.height-1-view.FooterHeight, 0)
}

func (m Model) colCells() int {
	return max(m.width/m.store.Geometry().Cols, minColCells)
}

// maxOffset keeps the last used row reachable by scrolling.
func (m Model) maxOffset() int {
	bottom := 0.0
	for _, w := range m.data.Widgets {
		bottom = math.Max(bottom, w.Placement().Bottom())
	}
	return max(int(math.Ceil(bottom))-m.canvasHeight()+1, 0)
}

func (m *Model) ensureVisible(p grid.Placement) {
	h := m.canvasHeight()
	if h <= 0 {
		return
	}
	top := int(math.Round(p.Position.Y))
	bottom := top + p.Size.H
	if bottom > m.offset+h {
		m.offset = bottom - h
	}
	if top < m.offset {
		m.offset = top
	}
	m.offset = max(m.offset, 0)
}

func (m *Model) ensureSelectedVisible() {
	if w, ok := m.selectedWidget(); ok {
		m.ensureVisible(w.Placement())
	}
}
