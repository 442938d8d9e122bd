// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tablero/internal/canvas"
)

// Store is the part of the canvas store the commands need.
type Store interface {
	Load(ctx context.Context) error
	Snapshot() *canvas.CanvasData
	Flush(ctx context.Context) error
}

// CanvasLoadedMsg is sent when the canvas has been read from storage.
type CanvasLoadedMsg struct {
	Data *canvas.CanvasData
}

// SavedMsg is sent after pending changes were written.
type SavedMsg struct{}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadCanvas loads the persisted canvas into the store.
func LoadCanvas(store Store) tea.Cmd {
	return func() tea.Msg {
		if err := store.Load(context.Background()); err != nil {
			return ErrMsg{Err: err}
		}
		return CanvasLoadedMsg{Data: store.Snapshot()}
	}
}

// Flush writes pending changes now.
func Flush(store Store) tea.Cmd {
	return func() tea.Msg {
		if err := store.Flush(context.Background()); err != nil {
			return ErrMsg{Err: err}
		}
		return SavedMsg{}
	}
}

// Yank copies text using write, typically clipboard.WriteAll.
func Yank(text, what string, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("Copied %s", what)}
	}
}

// Status returns a command that shows msg in the footer.
func Status(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}
