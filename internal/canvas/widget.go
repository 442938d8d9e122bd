package canvas

import (
	"strings"

	"github.com/javiermolinar/tablero/internal/grid"
)

// WidgetType identifies the kind of content a widget holds.
type WidgetType string

const (
	TypeMarkdown WidgetType = "markdown"
	TypeTodo     WidgetType = "todo"
	TypeKanban   WidgetType = "kanban"
	TypePhoto    WidgetType = "photo"
	TypeMusic    WidgetType = "music"
	TypeBook     WidgetType = "book"
)

// WidgetTypes lists every widget type in menu order.
var WidgetTypes = []WidgetType{TypeMarkdown, TypeTodo, TypeKanban, TypePhoto, TypeMusic, TypeBook}

var defaultSizes = map[WidgetType]grid.Size{
	TypeMarkdown: {W: 4, H: 6},
	TypeTodo:     {W: 3, H: 6},
	TypeKanban:   {W: 6, H: 6},
	TypePhoto:    {W: 3, H: 4},
	TypeMusic:    {W: 4, H: 3},
	TypeBook:     {W: 3, H: 5},
}

var typeLabels = map[WidgetType]string{
	TypeMarkdown: "Markdown Note",
	TypeTodo:     "Todo List",
	TypeKanban:   "Kanban Board",
	TypePhoto:    "Photo",
	TypeMusic:    "Music",
	TypeBook:     "Book",
}

// ParseWidgetType parses a widget type name (case-insensitive).
func ParseWidgetType(s string) (WidgetType, error) {
	t := WidgetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidWidgetType
	}
	return t, nil
}

// Valid returns true if the type is known.
func (t WidgetType) Valid() bool {
	_, ok := defaultSizes[t]
	return ok
}

// DefaultSize returns the footprint a new widget of this type gets.
func (t WidgetType) DefaultSize() grid.Size {
	return defaultSizes[t]
}

// Label returns a human-readable name for the type.
func (t WidgetType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// DefaultContent returns the initial content for a new widget of this type.
func (t WidgetType) DefaultContent() string {
	switch t {
	case TypeTodo:
		return "[]"
	case TypeKanban:
		content, _ := EncodeKanban(NewKanbanBoard())
		return content
	case TypeMusic:
		return DefaultMusicURL
	default:
		return ""
	}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return ""
}
