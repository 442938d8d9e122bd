package tui

import (
	"math"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/tui/theme"
	"github.com/javiermolinar/tablero/internal/tui/view"
)

// Snapshot renders the whole canvas once, without the interactive chrome,
// for printing to a terminal. Every used row is drawn.
func Snapshot(data *canvas.CanvasData, g grid.Geometry, themeName string, width int) string {
	t, err := theme.Load(themeName)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	headerRows := g.HeaderUnits(data.Settings.ShowHeaderImage)
	bottom := float64(headerRows)
	blocks := make([]view.Block, 0, len(data.Widgets))
	for _, w := range data.Widgets {
		p := w.Placement()
		bottom = math.Max(bottom, p.Bottom())
		body, title := styles.WidgetStyles(w.Type, false)
		blocks = append(blocks, blockFor(p, widgetLines(w), body, title))
	}

	return view.RenderCanvas(view.CanvasState{
		Width:       width,
		Height:      max(int(math.Ceil(bottom)), 1),
		Cols:        g.Cols,
		ColCells:    max(width/g.Cols, minColCells),
		HeaderRows:  headerRows,
		HeaderLabel: headerLabel(data.Settings),
		HeaderStyle: styles.HeaderStyle,
		EmptyStyle:  styles.EmptyCellStyle,
		GridDots:    data.Settings.GridEnabled,
		Blocks:      blocks,
	})
}

func headerLabel(s canvas.Settings) string {
	if s.HeaderImage != nil {
		return *s.HeaderImage
	}
	return "header"
}
