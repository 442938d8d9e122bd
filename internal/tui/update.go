package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tablero/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.loaded && msg.String() != "ctrl+c" {
			return m, nil
		}
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureSelectedVisible()
		return m, nil

	case commands.CanvasLoadedMsg:
		m.data = msg.Data
		m.loaded = true
		m.selected = -1
		if len(m.data.Widgets) > 0 {
			m.selected = 0
		}
		m.applyTheme()
		m.logger.Debug("canvas shown", "widgets", len(m.data.Widgets))
		return m, nil

	case commands.SavedMsg:
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.setStatus("Saved")

	case commands.ErrMsg:
		// A failed save cancels quitting.
		m.quitting = false
		return m, m.setError(msg.Err)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other component messages
	if m.mode == ModeModal {
		var cmd tea.Cmd
		switch m.modalType {
		case ModalEdit:
			m.editor, cmd = m.editor.Update(msg)
		case ModalAdd, ModalItems:
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}
