// Package canvas defines the dashboard domain types and the canvas store.
package canvas

import (
	"errors"
	"time"

	"github.com/javiermolinar/tablero/internal/grid"
)

// Validation errors.
var (
	ErrInvalidWidgetType = errors.New("widget type must be one of markdown, todo, kanban, photo, music, book")
	ErrInvalidSize       = errors.New("widget size must be positive")
	ErrWidgetTooWide     = errors.New("widget is wider than the grid")
	ErrInvalidContent    = errors.New("widget content is not valid for its type")
)

// Domain errors.
var (
	ErrWidgetNotFound    = errors.New("widget not found")
	ErrDuplicateWidget   = errors.New("widget id already exists")
	ErrUnknownLayoutItem = errors.New("layout item does not match any widget")
	ErrCollision         = errors.New("widgets overlap")
	ErrAmbiguousID       = errors.New("widget id prefix matches more than one widget")
	ErrOutOfBounds       = errors.New("widget extends outside the grid")
)

// WidgetStyle holds optional per-widget visual overrides.
type WidgetStyle struct {
	BackgroundColor *string  `json:"background_color,omitempty"`
	BorderColor     *string  `json:"border_color,omitempty"`
	TextColor       *string  `json:"text_color,omitempty"`
	FontSize        *int     `json:"font_size,omitempty"`
	FontFamily      *string  `json:"font_family,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
}

// Widget is a single item on the canvas.
type Widget struct {
	ID       string        `json:"id"`
	Type     WidgetType    `json:"widget_type"`
	Content  string        `json:"content"`
	Position grid.Position `json:"position"`
	Size     grid.Size     `json:"size"`
	Style    WidgetStyle   `json:"style"`
	Created  *time.Time    `json:"created,omitempty"`
}

// Placement returns the layout-relevant part of the widget.
func (w *Widget) Placement() grid.Placement {
	return grid.Placement{ID: w.ID, Position: w.Position, Size: w.Size}
}

// Title returns a short label for the widget: the first non-empty line of
// free-form content, or the widget type.
func (w *Widget) Title() string {
	switch w.Type {
	case TypeMarkdown, TypeBook, TypePhoto, TypeMusic:
		if line := firstLine(w.Content); line != "" {
			return line
		}
	}
	return w.Type.Label()
}

// Settings holds canvas-wide settings.
type Settings struct {
	BackgroundColor  string  `json:"background_color"`
	GridEnabled      bool    `json:"grid_enabled"`
	GridSize         int     `json:"grid_size"`
	SnapToGrid       bool    `json:"snap_to_grid"`
	ZoomLevel        float64 `json:"zoom_level"`
	HeaderImage      *string `json:"header_image,omitempty"`
	ShowHeaderImage  bool    `json:"show_header_image"`
	PreventCollision bool    `json:"prevent_collision"`
}

// Collision returns the collision policy encoded in the settings.
func (s Settings) Collision() grid.CollisionPolicy {
	if s.PreventCollision {
		return grid.CollisionPrevent
	}
	return grid.CollisionAllow
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	BackgroundColor  *string
	GridEnabled      *bool
	GridSize         *int
	SnapToGrid       *bool
	ZoomLevel        *float64
	HeaderImage      *string // empty string clears the image
	ShowHeaderImage  *bool
	PreventCollision *bool
}

// Apply returns s with the patch applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.GridEnabled != nil {
		s.GridEnabled = *p.GridEnabled
	}
	if p.GridSize != nil {
		s.GridSize = *p.GridSize
	}
	if p.SnapToGrid != nil {
		s.SnapToGrid = *p.SnapToGrid
	}
	if p.ZoomLevel != nil {
		s.ZoomLevel = *p.ZoomLevel
	}
	if p.HeaderImage != nil {
		if *p.HeaderImage == "" {
			s.HeaderImage = nil
		} else {
			img := *p.HeaderImage
			s.HeaderImage = &img
		}
	}
	if p.ShowHeaderImage != nil {
		s.ShowHeaderImage = *p.ShowHeaderImage
	}
	if p.PreventCollision != nil {
		s.PreventCollision = *p.PreventCollision
	}
	return s
}

// CanvasSize is the canvas size in pixels.
type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CanvasData is the full persisted dashboard state.
type CanvasData struct {
	Theme      string     `json:"theme"`
	Settings   Settings   `json:"settings"`
	Widgets    []Widget   `json:"widgets"`
	CanvasSize CanvasSize `json:"canvas_size"`
}

// Default returns the state of a fresh canvas.
func Default() *CanvasData {
	return &CanvasData{
		Theme: "dark",
		Settings: Settings{
			BackgroundColor:  "#ffffff",
			GridEnabled:      true,
			GridSize:         20,
			SnapToGrid:       false,
			ZoomLevel:        1.0,
			ShowHeaderImage:  false,
			PreventCollision: true,
		},
		CanvasSize: CanvasSize{
			Width:  1920,
			Height: 1080,
		},
		Widgets: []Widget{},
	}
}

// Clone returns a deep copy of the canvas data.
func (c *CanvasData) Clone() *CanvasData {
	out := *c
	if c.Settings.HeaderImage != nil {
		img := *c.Settings.HeaderImage
		out.Settings.HeaderImage = &img
	}
	out.Widgets = make([]Widget, len(c.Widgets))
	for i, w := range c.Widgets {
		out.Widgets[i] = w.clone()
	}
	return &out
}

// Placements returns the layout snapshot of all widgets in order.
func (c *CanvasData) Placements() []grid.Placement {
	placements := make([]grid.Placement, len(c.Widgets))
	for i := range c.Widgets {
		placements[i] = c.Widgets[i].Placement()
	}
	return placements
}

// Find returns the index of the widget with the given id, or -1.
func (c *CanvasData) Find(id string) int {
	for i := range c.Widgets {
		if c.Widgets[i].ID == id {
			return i
		}
	}
	return -1
}

func (w Widget) clone() Widget {
	out := w
	out.Style = WidgetStyle{
		BackgroundColor: clonePtr(w.Style.BackgroundColor),
		BorderColor:     clonePtr(w.Style.BorderColor),
		TextColor:       clonePtr(w.Style.TextColor),
		FontSize:        clonePtr(w.Style.FontSize),
		FontFamily:      clonePtr(w.Style.FontFamily),
		Rotation:        clonePtr(w.Style.Rotation),
		Opacity:         clonePtr(w.Style.Opacity),
	}
	out.Created = clonePtr(w.Created)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
