package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/tui/commands"
	"github.com/javiermolinar/tablero/internal/tui/theme"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Next      key.Binding
	Prev      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Add       key.Binding
	Move      key.Binding
	Resize    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Arrange   key.Binding
	Snap      key.Binding
	Header    key.Binding
	Collision key.Binding
	Yank      key.Binding
	Theme     key.Binding
	Apply     key.Binding
	Cancel    key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Move:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Resize:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resize")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Arrange:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "arrange")),
		Snap:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snap")),
		Header:    key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "header")),
		Collision: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collisions")),
		Yank:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Apply:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Move, k.Resize, k.Edit, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Next, k.PageDown},
		{k.Add, k.Edit, k.Delete, k.Yank},
		{k.Move, k.Resize, k.Arrange},
		{k.Snap, k.Header, k.Collision, k.Theme},
		{k.Help, k.Quit},
	}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Apply, k.Cancel}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeResize:
		return m.handleResizeKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, commands.Flush(m.store)

	case key.Matches(msg, m.keys.Up):
		m.selectToward(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.selectToward(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.selectToward(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.selectToward(1, 0)
	case key.Matches(msg, m.keys.Next):
		m.cycleSelection(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycleSelection(-1)
	case key.Matches(msg, m.keys.PageUp):
		m.offset = max(m.offset-m.canvasHeight(), 0)
	case key.Matches(msg, m.keys.PageDown):
		m.offset = min(m.offset+m.canvasHeight(), m.maxOffset())

	case key.Matches(msg, m.keys.Add):
		m.openAddModal()
	case key.Matches(msg, m.keys.Edit):
		if w, ok := m.selectedWidget(); ok {
			m.openEditModal(w)
		}
	case key.Matches(msg, m.keys.Delete):
		if w, ok := m.selectedWidget(); ok {
			m.mode = ModeModal
			m.modalType = ModalConfirmDelete
			m.confirmMessage = fmt.Sprintf("Delete %s %q?", w.Type.Label(), w.Title())
		}
	case key.Matches(msg, m.keys.Move):
		if w, ok := m.selectedWidget(); ok {
			m.mode = ModeMove
			m.draft = w.Placement()
		}
	case key.Matches(msg, m.keys.Resize):
		if w, ok := m.selectedWidget(); ok {
			m.mode = ModeResize
			m.draft = w.Placement()
		}
	case key.Matches(msg, m.keys.Arrange):
		m.store.Arrange()
		m.refresh(m.selectedID())
		return m, m.setStatus(fmt.Sprintf("Arranged %d widgets", len(m.data.Widgets)))

	case key.Matches(msg, m.keys.Snap):
		v := !m.data.Settings.SnapToGrid
		m.store.UpdateSettings(canvas.SettingsPatch{SnapToGrid: &v})
		m.refresh(m.selectedID())
		return m, m.setStatus("Snap to grid " + onOff(v))
	case key.Matches(msg, m.keys.Header):
		v := !m.data.Settings.ShowHeaderImage
		m.store.UpdateSettings(canvas.SettingsPatch{ShowHeaderImage: &v})
		m.refresh(m.selectedID())
		return m, m.setStatus("Header " + onOff(v))
	case key.Matches(msg, m.keys.Collision):
		v := !m.data.Settings.PreventCollision
		m.store.UpdateSettings(canvas.SettingsPatch{PreventCollision: &v})
		m.refresh(m.selectedID())
		return m, m.setStatus("Collision policy: " + string(m.data.Settings.Collision()))

	case key.Matches(msg, m.keys.Yank):
		if w, ok := m.selectedWidget(); ok {
			return m, commands.Yank(w.Content, strings.ToLower(w.Type.Label()), m.clipboard)
		}
	case key.Matches(msg, m.keys.Theme):
		next := theme.Next(m.data.Theme)
		m.store.SetTheme(next)
		m.refresh(m.selectedID())
		m.applyTheme()
		if m.config.UI.Theme != "" {
			return m, m.setStatus(fmt.Sprintf("Canvas theme %s (display pinned to %s by config)", next, m.config.UI.Theme))
		}
		return m, m.setStatus("Theme " + next)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleMoveKeys moves the preview. Without snapping x moves in half columns.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := 1.0
	if !m.data.Settings.SnapToGrid {
		step = 0.5
	}
	cols := float64(m.store.Geometry().Cols)

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeNormal
	case key.Matches(msg, m.keys.Apply):
		return m.commitDraft("Moved")
	case key.Matches(msg, m.keys.Left):
		m.draft.Position.X = math.Max(m.draft.Position.X-step, 0)
	case key.Matches(msg, m.keys.Right):
		m.draft.Position.X = math.Min(m.draft.Position.X+step, cols-float64(m.draft.Size.W))
	case key.Matches(msg, m.keys.Up):
		m.draft.Position.Y = math.Max(m.draft.Position.Y-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.draft.Position.Y++
	}
	m.ensureVisible(m.draft)
	return m, nil
}

// handleResizeKeys grows or shrinks the preview.
func (m Model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.store.Geometry().Cols

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeNormal
	case key.Matches(msg, m.keys.Apply):
		return m.commitDraft("Resized")
	case key.Matches(msg, m.keys.Left):
		m.draft.Size.W = max(m.draft.Size.W-1, 1)
	case key.Matches(msg, m.keys.Right):
		m.draft.Size.W = min(m.draft.Size.W+1, cols)
	case key.Matches(msg, m.keys.Up):
		m.draft.Size.H = max(m.draft.Size.H-1, 1)
	case key.Matches(msg, m.keys.Down):
		m.draft.Size.H++
	}
	m.ensureVisible(m.draft)
	return m, nil
}

// commitDraft applies the preview through the store. A rejected layout keeps
// the mode so the user can adjust it.
func (m Model) commitDraft(verb string) (tea.Model, tea.Cmd) {
	item := grid.LayoutItem{
		I: m.draft.ID,
		X: m.draft.Position.X,
		Y: m.draft.Position.Y,
		W: m.draft.Size.W,
		H: m.draft.Size.H,
	}
	if _, err := m.store.ApplyLayout([]grid.LayoutItem{item}); err != nil {
		return m, m.setError(err)
	}
	m.mode = ModeNormal
	m.refresh(m.draft.ID)
	w, _ := m.selectedWidget()
	return m, m.setStatus(fmt.Sprintf("%s %s to (%g, %g) %dx%d", verb, w.Title(), w.Position.X, w.Position.Y, w.Size.W, w.Size.H))
}

// selectToward selects the nearest widget in the direction (dx, dy).
func (m *Model) selectToward(dx, dy float64) {
	cur, ok := m.selectedWidget()
	if !ok {
		m.cycleSelection(1)
		return
	}
	cx, cy := center(cur.Placement())

	best, bestScore := -1, math.Inf(1)
	for i, w := range m.data.Widgets {
		if i == m.selected {
			continue
		}
		x, y := center(w.Placement())
		along := (x-cx)*dx + (y-cy)*dy
		if along <= 0 {
			continue
		}
		across := math.Abs((x-cx)*dy) + math.Abs((y-cy)*dx)
		if score := along + 2*across; score < bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		m.selected = best
		m.ensureSelectedVisible()
	}
}

func (m *Model) cycleSelection(delta int) {
	n := len(m.data.Widgets)
	if n == 0 {
		m.selected = -1
		return
	}
	if m.selected < 0 {
		m.selected = 0
	} else {
		m.selected = (m.selected + delta + n) % n
	}
	m.ensureSelectedVisible()
}

func center(p grid.Placement) (x, y float64) {
	return p.Position.X + float64(p.Size.W)/2, p.Position.Y + float64(p.Size.H)/2
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
