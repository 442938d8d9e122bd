package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/tui/view"
)

// item is one row of the items modal: a todo or a kanban card.
type item struct {
	id     string
	label  string
	column int // kanban column index, -1 for todos
}

func (m *Model) openAddModal() {
	m.mode = ModeModal
	m.modalType = ModalAdd
	m.addType = 0
	m.input.Reset()
	m.input.Placeholder = "Title or first item (optional)"
	m.input.Focus()
}

func (m *Model) openEditModal(w canvas.Widget) {
	m.mode = ModeModal
	switch w.Type {
	case canvas.TypeTodo, canvas.TypeKanban:
		m.modalType = ModalItems
		m.itemCursor = 0
		m.input.Reset()
		m.input.Placeholder = "New item"
		if w.Type == canvas.TypeKanban {
			m.input.Placeholder = "New card"
		}
		m.input.Focus()
	default:
		m.modalType = ModalEdit
		m.editor.SetValue(w.Content)
		m.editor.Focus()
	}
}

func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.input.Blur()
	m.editor.Blur()
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.closeModal()
		return m, nil
	}
	switch m.modalType {
	case ModalAdd:
		return m.handleAddKeys(msg)
	case ModalEdit:
		return m.handleEditKeys(msg)
	case ModalItems:
		return m.handleItemKeys(msg)
	case ModalConfirmDelete:
		return m.handleConfirmKeys(msg)
	}
	m.closeModal()
	return m, nil
}

func (m Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.addType = (m.addType + len(canvas.WidgetTypes) - 1) % len(canvas.WidgetTypes)
		return m, nil
	case "down":
		m.addType = (m.addType + 1) % len(canvas.WidgetTypes)
		return m, nil
	case "enter":
		t := canvas.WidgetTypes[m.addType]
		content, err := initialContent(t, m.input.Value())
		if err != nil {
			return m, m.setError(err)
		}
		w, err := m.store.AddWidget(t, content)
		if err != nil {
			return m, m.setError(err)
		}
		m.closeModal()
		m.refresh(w.ID)
		return m, m.setStatus(fmt.Sprintf("Added %s at (%g, %g)", t.Label(), w.Position.X, w.Position.Y))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// initialContent turns the optional text typed in the add modal into widget
// content: the first item for todos and kanban boards, the content otherwise.
func initialContent(t canvas.WidgetType, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	switch t {
	case canvas.TypeTodo:
		return canvas.AddTodo(t.DefaultContent(), text)
	case canvas.TypeKanban:
		board := canvas.NewKanbanBoard()
		return canvas.AddCard(t.DefaultContent(), board.Columns[0].ID, text)
	case canvas.TypeMusic:
		if _, err := canvas.MusicEmbedURL(text); err != nil {
			return "", err
		}
	}
	return text, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Save) {
		id := m.selectedID()
		if err := m.store.UpdateContent(id, m.editor.Value()); err != nil {
			return m, m.setError(err)
		}
		m.closeModal()
		m.refresh(id)
		return m, m.setStatus("Saved")
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// handleItemKeys adds items with enter and, while the input is empty, toggles
// the todo or advances the card under the cursor with space.
func (m Model) handleItemKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w, ok := m.selectedWidget()
	if !ok {
		m.closeModal()
		return m, nil
	}
	items := widgetItems(w)

	switch msg.String() {
	case "up":
		m.itemCursor = max(m.itemCursor-1, 0)
		return m, nil
	case "down":
		m.itemCursor = min(m.itemCursor+1, max(len(items)-1, 0))
		return m, nil
	case "enter":
		content, err := addItem(w, m.input.Value())
		if err != nil {
			return m, m.setError(err)
		}
		if err := m.store.UpdateContent(w.ID, content); err != nil {
			return m, m.setError(err)
		}
		m.input.Reset()
		m.refresh(w.ID)
		return m, nil
	case " ":
		if m.input.Value() != "" || m.itemCursor >= len(items) {
			break
		}
		content, err := advanceItem(w, items[m.itemCursor], m.itemCursor)
		if err != nil {
			return m, m.setError(err)
		}
		if err := m.store.UpdateContent(w.ID, content); err != nil {
			return m, m.setError(err)
		}
		m.refresh(w.ID)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		w, ok := m.selectedWidget()
		m.closeModal()
		if !ok {
			return m, nil
		}
		if err := m.store.RemoveWidget(w.ID); err != nil {
			return m, m.setError(err)
		}
		next := m.selected
		m.refresh("")
		if len(m.data.Widgets) > 0 {
			m.selected = min(next, len(m.data.Widgets)-1)
		}
		return m, m.setStatus("Deleted " + w.Title())
	case "n", "N":
		m.closeModal()
	}
	return m, nil
}

func widgetItems(w canvas.Widget) []item {
	var items []item
	switch w.Type {
	case canvas.TypeTodo:
		todos, err := canvas.ParseTodos(w.Content)
		if err != nil {
			return nil
		}
		for _, t := range todos {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			items = append(items, item{id: t.ID, label: mark + " " + t.Text, column: -1})
		}
	case canvas.TypeKanban:
		board, err := canvas.ParseKanban(w.Content)
		if err != nil {
			return nil
		}
		for ci, col := range board.Columns {
			for _, card := range col.Cards {
				items = append(items, item{id: card.ID, label: col.Title + " · " + card.Content, column: ci})
			}
		}
	}
	return items
}

func addItem(w canvas.Widget, text string) (string, error) {
	if w.Type == canvas.TypeTodo {
		return canvas.AddTodo(w.Content, text)
	}
	board, err := canvas.ParseKanban(w.Content)
	if err != nil {
		return "", err
	}
	if len(board.Columns) == 0 {
		return "", fmt.Errorf("%w: board has no columns", canvas.ErrInvalidContent)
	}
	return canvas.AddCard(w.Content, board.Columns[0].ID, text)
}

// advanceItem toggles a todo or moves a card to the next column, wrapping
// from the last column back to the first.
func advanceItem(w canvas.Widget, it item, index int) (string, error) {
	if w.Type == canvas.TypeTodo {
		return canvas.ToggleTodo(w.Content, index)
	}
	board, err := canvas.ParseKanban(w.Content)
	if err != nil {
		return "", err
	}
	next := board.Columns[(it.column+1)%len(board.Columns)].ID
	return canvas.MoveCard(w.Content, it.id, next)
}

func (m Model) renderModal() string {
	styles := m.styles.Modal
	switch m.modalType {
	case ModalAdd:
		labels := make([]string, len(canvas.WidgetTypes))
		for i, t := range canvas.WidgetTypes {
			size := t.DefaultSize()
			labels[i] = fmt.Sprintf("%-14s %dx%d", t.Label(), size.W, size.H)
		}
		body := view.RenderOptions(styles, labels, m.addType) + "\n\n" + m.input.View()
		return view.RenderModalFrame("Add widget", body, "↑/↓ type · enter add · esc cancel", styles)

	case ModalEdit:
		w, _ := m.selectedWidget()
		return view.RenderModalFrame("Edit "+w.Type.Label(), m.editor.View(), "ctrl+s save · esc cancel", styles)

	case ModalItems:
		w, _ := m.selectedWidget()
		items := widgetItems(w)
		labels := make([]string, len(items))
		for i, it := range items {
			labels[i] = it.label
		}
		body := styles.Hint.Render("(empty)")
		if len(labels) > 0 {
			body = view.RenderOptions(styles, labels, m.itemCursor)
		}
		hint := "enter add · space toggle · esc close"
		if w.Type == canvas.TypeKanban {
			hint = "enter add · space next column · esc close"
		}
		return view.RenderModalFrame(w.Title(), body+"\n\n"+m.input.View(), hint, styles)

	case ModalConfirmDelete:
		return view.RenderModalFrame("Confirm", styles.Body.Render(m.confirmMessage), "y delete · n cancel", styles)
	}
	return ""
}
