package view

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Block is a widget drawn on the canvas, in grid units.
type Block struct {
	X, Y       float64
	W, H       int
	Lines      []string // first line is the title
	Style      lipgloss.Style
	TitleStyle lipgloss.Style
}

// CanvasState holds everything needed to draw the grid.
type CanvasState struct {
	Width       int // terminal cells
	Height      int // terminal lines
	Cols        int // grid columns
	ColCells    int // terminal cells per grid column
	Offset      int // first grid row shown
	HeaderRows  int // rows reserved for the header band, 0 when hidden
	HeaderLabel string
	HeaderStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
	GridDots    bool
	Blocks      []Block // drawn in order, later blocks on top
}

const (
	ownerEmpty  = -1
	ownerHeader = -2
)

type cell struct {
	r     rune
	owner int
}

// RenderCanvas draws the visible rows of the grid. Each grid row is one
// terminal line and each grid column ColCells cells wide. Fractional x
// positions round to the nearest cell.
func RenderCanvas(state CanvasState) string {
	if state.Width <= 0 || state.Height <= 0 || state.Cols <= 0 || state.ColCells <= 0 {
		return ""
	}
	gridW := state.Cols * state.ColCells

	lines := make([]string, state.Height)
	for i := range lines {
		row := state.Offset + i
		cells := make([]cell, gridW)
		for c := range cells {
			cells[c] = cell{r: emptyRune(state, c), owner: ownerEmpty}
		}
		if row < state.HeaderRows {
			label := []rune(state.HeaderLabel)
			for c := range cells {
				r := ' '
				if row == 0 && c >= 1 && c-1 < len(label) {
					r = label[c-1]
				}
				cells[c] = cell{r: r, owner: ownerHeader}
			}
		}

		titleRow := make(map[int]bool)
		for k, b := range state.Blocks {
			top := int(math.Round(b.Y))
			if row < top || row >= top+b.H {
				continue
			}
			text := ""
			if idx := row - top; idx < len(b.Lines) {
				text = b.Lines[idx]
			}
			titleRow[k] = row == top
			left := int(math.Round(b.X * float64(state.ColCells)))
			width := b.W * state.ColCells
			for j, r := range fitRunes(text, width) {
				if c := left + j; c >= 0 && c < gridW {
					cells[c] = cell{r: r, owner: k}
				}
			}
		}

		lines[i] = paintRow(state, cells, titleRow)
	}

	return PadLinesWithBackground(strings.Join(lines, "\n"), state.Width, state.Height, bgOf(state.EmptyStyle))
}

func emptyRune(state CanvasState, c int) rune {
	if state.GridDots && c%state.ColCells == 0 {
		return '·'
	}
	return ' '
}

func paintRow(state CanvasState, cells []cell, titleRow map[int]bool) string {
	var b strings.Builder
	start := 0
	for c := 1; c <= len(cells); c++ {
		if c < len(cells) && cells[c].owner == cells[start].owner {
			continue
		}
		run := make([]rune, 0, c-start)
		for _, cl := range cells[start:c] {
			run = append(run, cl.r)
		}
		b.WriteString(styleFor(state, cells[start].owner, titleRow).Render(string(run)))
		start = c
	}
	return b.String()
}

func styleFor(state CanvasState, owner int, titleRow map[int]bool) lipgloss.Style {
	switch owner {
	case ownerEmpty:
		return state.EmptyStyle
	case ownerHeader:
		return state.HeaderStyle
	}
	blk := state.Blocks[owner]
	if titleRow[owner] {
		return blk.TitleStyle
	}
	return blk.Style
}

// fitRunes lays text out in exactly width single-cell runes with a one-cell
// margin on each side. Runes that do not occupy one cell become '?'.
func fitRunes(text string, width int) []rune {
	out := make([]rune, width)
	for i := range out {
		out[i] = ' '
	}
	if width <= 2 {
		return out
	}
	var src []rune
	for _, r := range ansi.Strip(text) {
		if r == '\t' {
			r = ' '
		}
		if ansi.StringWidth(string(r)) != 1 {
			r = '?'
		}
		src = append(src, r)
	}
	room := width - 2
	if len(src) > room {
		src = append(src[:room-1], '…')
	}
	copy(out[1:], src)
	return out
}

func bgOf(style lipgloss.Style) lipgloss.Color {
	if c, ok := style.GetBackground().(lipgloss.Color); ok {
		return c
	}
	return lipgloss.Color("")
}
