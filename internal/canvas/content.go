package canvas

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// TodoItem is one entry of a todo widget.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ParseTodos decodes todo widget content. Empty content is an empty list.
func ParseTodos(content string) ([]TodoItem, error) {
	if strings.TrimSpace(content) == "" {
		return []TodoItem{}, nil
	}
	var items []TodoItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if items == nil {
		items = []TodoItem{}
	}
	return items, nil
}

// EncodeTodos encodes todo items as widget content.
func EncodeTodos(items []TodoItem) (string, error) {
	if items == nil {
		items = []TodoItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding todos: %w", err)
	}
	return string(data), nil
}

// AddTodo appends a new open item and returns the updated content.
func AddTodo(content, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: todo text cannot be empty", ErrInvalidContent)
	}
	items, err := ParseTodos(content)
	if err != nil {
		return "", err
	}
	items = append(items, TodoItem{ID: uuid.NewString(), Text: text})
	return EncodeTodos(items)
}

// ToggleTodo flips the completed flag of the item at index (0-based).
func ToggleTodo(content string, index int) (string, error) {
	items, err := ParseTodos(content)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("%w: todo %d out of range (have %d)", ErrInvalidContent, index+1, len(items))
	}
	items[index].Completed = !items[index].Completed
	return EncodeTodos(items)
}

// KanbanCard is a card on a kanban board.
type KanbanCard struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Labels  []string `json:"labels"`
}

// KanbanColumn is a column of cards.
type KanbanColumn struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Cards []KanbanCard `json:"tasks"`
}

// KanbanBoard is the content of a kanban widget.
type KanbanBoard struct {
	Columns []KanbanColumn `json:"columns"`
}

// NewKanbanBoard returns a board with the default To Do / In Progress / Done columns.
func NewKanbanBoard() KanbanBoard {
	return KanbanBoard{Columns: []KanbanColumn{
		{ID: "todo", Title: "To Do", Cards: []KanbanCard{}},
		{ID: "in-progress", Title: "In Progress", Cards: []KanbanCard{}},
		{ID: "done", Title: "Done", Cards: []KanbanCard{}},
	}}
}

// ParseKanban decodes kanban widget content. Empty content is a default board.
func ParseKanban(content string) (KanbanBoard, error) {
	if strings.TrimSpace(content) == "" {
		return NewKanbanBoard(), nil
	}
	var b KanbanBoard
	if err := json.Unmarshal([]byte(content), &b); err != nil {
		return KanbanBoard{}, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return b, nil
}

// EncodeKanban encodes a board as widget content.
func EncodeKanban(b KanbanBoard) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encoding kanban: %w", err)
	}
	return string(data), nil
}

// Column returns the index of the column with the given id, or -1.
func (b KanbanBoard) Column(id string) int {
	for i, c := range b.Columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddCard appends a card to the given column and returns the updated content.
func AddCard(content, columnID, text string, labels ...string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: card text cannot be empty", ErrInvalidContent)
	}
	b, err := ParseKanban(content)
	if err != nil {
		return "", err
	}
	col := b.Column(columnID)
	if col < 0 {
		return "", fmt.Errorf("%w: unknown column %q", ErrInvalidContent, columnID)
	}
	if labels == nil {
		labels = []string{}
	}
	b.Columns[col].Cards = append(b.Columns[col].Cards, KanbanCard{
		ID:      uuid.NewString(),
		Content: text,
		Labels:  labels,
	})
	return EncodeKanban(b)
}

// MoveCard moves a card to the end of another column and returns the updated content.
func MoveCard(content, cardID, toColumn string) (string, error) {
	b, err := ParseKanban(content)
	if err != nil {
		return "", err
	}
	dst := b.Column(toColumn)
	if dst < 0 {
		return "", fmt.Errorf("%w: unknown column %q", ErrInvalidContent, toColumn)
	}
	for ci := range b.Columns {
		for i, card := range b.Columns[ci].Cards {
			if card.ID != cardID && !strings.HasPrefix(card.ID, cardID) {
				continue
			}
			b.Columns[ci].Cards = append(b.Columns[ci].Cards[:i], b.Columns[ci].Cards[i+1:]...)
			b.Columns[dst].Cards = append(b.Columns[dst].Cards, card)
			return EncodeKanban(b)
		}
	}
	return "", fmt.Errorf("%w: card %q not found", ErrInvalidContent, cardID)
}

// DefaultMusicURL is the playlist a new music widget starts with.
const DefaultMusicURL = "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M"

var spotifyPattern = regexp.MustCompile(`spotify\.com/(track|album|playlist|artist)/([a-zA-Z0-9]+)`)

// MusicEmbedURL converts a Spotify share URL into its embeddable form.
func MusicEmbedURL(url string) (string, error) {
	m := spotifyPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: not a spotify track, album, playlist, or artist url", ErrInvalidContent)
	}
	return fmt.Sprintf("https://open.spotify.com/embed/%s/%s", m[1], m[2]), nil
}

// ValidateContent checks that content is well-formed for the widget type.
func ValidateContent(t WidgetType, content string) error {
	switch t {
	case TypeTodo:
		_, err := ParseTodos(content)
		return err
	case TypeKanban:
		_, err := ParseKanban(content)
		return err
	case TypeMusic:
		if strings.TrimSpace(content) == "" {
			return nil
		}
		_, err := MusicEmbedURL(content)
		return err
	default:
		return nil
	}
}
