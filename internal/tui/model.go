// Package tui provides the terminal user interface for tablero.
package tui

import (
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/config"
	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/tui/commands"
	"github.com/javiermolinar/tablero/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // Arrow keys move a preview of the selected widget
	ModeResize      // Arrow keys resize a preview of the selected widget
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone          ModalType = iota
	ModalAdd                     // Widget type picker
	ModalEdit                    // Free-form content editor
	ModalItems                   // Todo items or kanban cards
	ModalConfirmDelete           // Delete confirmation
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store     *canvas.Store
	config    *config.Config
	logger    *log.Logger
	clipboard func(string) error

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// State
	data     *canvas.CanvasData
	selected int // index into data.Widgets, -1 when empty
	mode     Mode
	loaded   bool
	quitting bool

	// Move and resize preview
	draft grid.Placement

	// Modal state
	modalType      ModalType
	addType        int             // index into canvas.WidgetTypes
	input          textinput.Model // add content, new todo item or card
	editor         textarea.Model  // free-form content
	itemCursor     int
	confirmMessage string

	// Terminal dimensions
	width  int
	height int
	offset int // first grid row shown

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithClipboard replaces the clipboard writer used by yank.
func WithClipboard(write func(string) error) ModelOption {
	return func(m *Model) { m.clipboard = write }
}

// New creates a new TUI model.
func New(store *canvas.Store, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	input := textinput.New()
	input.CharLimit = 256
	input.Width = 40

	editor := textarea.New()
	editor.SetWidth(50)
	editor.SetHeight(10)
	editor.ShowLineNumbers = false

	m := &Model{
		store:     store,
		config:    cfg,
		logger:    log.New(io.Discard),
		clipboard: clipboard.WriteAll,
		keys:      newKeyMap(),
		help:      help.New(),
		data:      canvas.Default(),
		selected:  -1,
		mode:      ModeNormal,
		input:     input,
		editor:    editor,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyTheme()
	return m
}

// Init loads the canvas.
func (m Model) Init() tea.Cmd {
	return commands.LoadCanvas(m.store)
}

// Run starts the TUI. Pending changes are flushed when the user quits; the
// caller still owns the store and should Close it.
func Run(store *canvas.Store, cfg *config.Config, logger *log.Logger) error {
	model := New(store, cfg, WithLogger(logger))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// themeName returns the configured theme override or the canvas theme.
func (m *Model) themeName() string {
	if m.config.UI.Theme != "" {
		return m.config.UI.Theme
	}
	return m.data.Theme
}

func (m *Model) applyTheme() {
	t, err := theme.Load(m.themeName())
	if err != nil {
		m.logger.Warn("loading theme", "theme", m.themeName(), "err", err)
		t, _ = theme.Load(theme.DefaultName)
	}
	m.theme = t
	m.styles = NewStyles(t)

	m.input.PromptStyle = m.styles.ModalInputStyle
	m.input.TextStyle = m.styles.ModalInputStyle
	m.input.PlaceholderStyle = m.styles.ModalPlaceholder
	m.input.Cursor.Style = m.styles.ModalCursorStyle
	m.help.Styles.ShortKey = m.styles.HelpStyle.Bold(true)
	m.help.Styles.ShortDesc = m.styles.HelpStyle
	m.help.Styles.FullKey = m.styles.HelpStyle.Bold(true)
	m.help.Styles.FullDesc = m.styles.HelpStyle
}

// refresh reloads the snapshot from the store and keeps the selection on
// the widget with the given id when it still exists.
func (m *Model) refresh(selectID string) {
	m.data = m.store.Snapshot()
	m.selected = -1
	if idx := m.data.Find(selectID); idx >= 0 {
		m.selected = idx
	} else if len(m.data.Widgets) > 0 {
		m.selected = 0
	}
	m.ensureSelectedVisible()
}

func (m *Model) selectedWidget() (canvas.Widget, bool) {
	if m.selected < 0 || m.selected >= len(m.data.Widgets) {
		return canvas.Widget{}, false
	}
	return m.data.Widgets[m.selected], true
}

func (m *Model) selectedID() string {
	if w, ok := m.selectedWidget(); ok {
		return w.ID
	}
	return ""
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(3 * time.Second)
	return clearStatusAfter(3 * time.Second)
}

func (m *Model) setError(err error) tea.Cmd {
	m.logger.Debug("tui error", "err", err)
	m.statusMsg = "Error: " + err.Error()
	m.statusErr = true
	m.statusTime = time.Now().Add(5 * time.Second)
	return clearStatusAfter(5 * time.Second)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
