// Package summary provides shared canvas summary utilities.
package summary

import (
	"context"
	"fmt"
	"sort"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
)

// CanvasSummary holds aggregated canvas data.
type CanvasSummary struct {
	Widgets     int
	ByType      map[canvas.WidgetType]int
	RowsUsed    float64 // bottom edge of the lowest widget
	HeaderRows  int
	Todos       TodoStats
	KanbanCards []ColumnCount // summed across boards, in first-seen column order
	Overflowing []string      // widget ids extending past the right edge
	Collisions  [][2]string
	Invalid     []string // widget ids whose content could not be parsed
}

// TodoStats counts todo items across all todo widgets.
type TodoStats struct {
	Total     int
	Completed int
}

// Open returns the number of items not yet completed.
func (s TodoStats) Open() int {
	return s.Total - s.Completed
}

// ColumnCount is the number of cards in kanban columns with a given title.
type ColumnCount struct {
	Title string
	Cards int
}

// Summarize builds summary data for a canvas on the given geometry.
func Summarize(data *canvas.CanvasData, g grid.Geometry) *CanvasSummary {
	s := &CanvasSummary{
		Widgets:    len(data.Widgets),
		ByType:     make(map[canvas.WidgetType]int),
		HeaderRows: g.HeaderUnits(data.Settings.ShowHeaderImage),
	}

	columns := make(map[string]int)
	for i := range data.Widgets {
		w := &data.Widgets[i]
		s.ByType[w.Type]++

		p := w.Placement()
		s.RowsUsed = max(s.RowsUsed, p.Bottom())
		if g.Overflows(p) {
			s.Overflowing = append(s.Overflowing, w.ID)
		}

		switch w.Type {
		case canvas.TypeTodo:
			items, err := canvas.ParseTodos(w.Content)
			if err != nil {
				s.Invalid = append(s.Invalid, w.ID)
				continue
			}
			for _, it := range items {
				s.Todos.Total++
				if it.Completed {
					s.Todos.Completed++
				}
			}
		case canvas.TypeKanban:
			board, err := canvas.ParseKanban(w.Content)
			if err != nil {
				s.Invalid = append(s.Invalid, w.ID)
				continue
			}
			for _, col := range board.Columns {
				idx, ok := columns[col.Title]
				if !ok {
					idx = len(s.KanbanCards)
					columns[col.Title] = idx
					s.KanbanCards = append(s.KanbanCards, ColumnCount{Title: col.Title})
				}
				s.KanbanCards[idx].Cards += len(col.Cards)
			}
		}
	}

	s.Collisions = grid.Collisions(data.Placements())
	return s
}

// Types returns the widget types present, in menu order.
func (s *CanvasSummary) Types() []canvas.WidgetType {
	var out []canvas.WidgetType
	for _, t := range canvas.WidgetTypes {
		if s.ByType[t] > 0 {
			out = append(out, t)
		}
	}
	// Unknown types from hand-edited files go last, sorted.
	var unknown []string
	for t := range s.ByType {
		if !t.Valid() {
			unknown = append(unknown, string(t))
		}
	}
	sort.Strings(unknown)
	for _, t := range unknown {
		out = append(out, canvas.WidgetType(t))
	}
	return out
}

// BuildSummary loads the canvas from the repository and summarizes it.
func BuildSummary(ctx context.Context, repo canvas.Repository, g grid.Geometry) (*CanvasSummary, error) {
	data, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading canvas: %w", err)
	}
	return Summarize(data, g), nil
}
