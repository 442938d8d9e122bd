package canvas

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/javiermolinar/tablero/internal/grid"
)

// DefaultDebounce is how long the store waits after the last change before saving.
const DefaultDebounce = time.Second

// Store owns the canvas state. All mutations are serialized; readers get
// copies. Changes are saved to the repository after a debounce delay, or
// immediately on Flush.
type Store struct {
	mu       sync.Mutex
	saveMu   sync.Mutex
	repo     Repository
	geometry grid.Geometry
	debounce time.Duration
	logger   *log.Logger
	now      func() time.Time
	newID    func() string

	data   *CanvasData
	dirty  bool
	timer  *time.Timer
	closed bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithGeometry sets the grid geometry used for placement.
func WithGeometry(g grid.Geometry) StoreOption {
	return func(s *Store) { s.geometry = g }
}

// WithDebounce sets the autosave delay. Zero or negative disables autosave;
// changes are then only written by Flush.
func WithDebounce(d time.Duration) StoreOption {
	return func(s *Store) { s.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDFunc sets the widget id generator.
func WithIDFunc(f func() string) StoreOption {
	return func(s *Store) { s.newID = f }
}

// NewStore creates a store holding a default canvas. Call Load to read the
// persisted state.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:     repo,
		geometry: grid.Default(),
		debounce: DefaultDebounce,
		logger:   log.New(io.Discard),
		now:      time.Now,
		newID:    uuid.NewString,
		data:     Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the repository's.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading canvas: %w", err)
	}
	if data == nil {
		data = Default()
	}
	if data.Widgets == nil {
		data.Widgets = []Widget{}
	}

	s.mu.Lock()
	s.data = data
	s.dirty = false
	s.mu.Unlock()

	s.logger.Debug("canvas loaded", "widgets", len(data.Widgets), "theme", data.Theme)
	return nil
}

// Geometry returns the grid geometry.
func (s *Store) Geometry() grid.Geometry {
	return s.geometry
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() *CanvasData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Dirty reports whether there are unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Resolve returns the full id for an exact id or a unique id prefix.
func (s *Store) Resolve(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(prefix)
}

func (s *Store) resolveLocked(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrWidgetNotFound
	}
	if s.data.Find(prefix) >= 0 {
		return prefix, nil
	}
	match := ""
	for _, w := range s.data.Widgets {
		if strings.HasPrefix(w.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
			}
			match = w.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrWidgetNotFound, prefix)
	}
	return match, nil
}

// Widget returns a copy of the widget with the given id or id prefix.
func (s *Store) Widget(id string) (Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	full, err := s.resolveLocked(id)
	if err != nil {
		return Widget{}, err
	}
	return s.data.Widgets[s.data.Find(full)].clone(), nil
}

// AddWidget adds a widget with the type's default size.
func (s *Store) AddWidget(t WidgetType, content string) (Widget, error) {
	size := t.DefaultSize()
	return s.AddWidgetSized(t, content, size.W, size.H)
}

// AddWidgetSized adds a widget of the given size at the next free position.
// Empty content is replaced by the type's default content.
func (s *Store) AddWidgetSized(t WidgetType, content string, width, height int) (Widget, error) {
	if !t.Valid() {
		return Widget{}, ErrInvalidWidgetType
	}
	if width <= 0 || height <= 0 {
		return Widget{}, ErrInvalidSize
	}
	if width > s.geometry.Cols {
		return Widget{}, fmt.Errorf("%w: width %d, grid has %d columns", ErrWidgetTooWide, width, s.geometry.Cols)
	}
	if content == "" {
		content = t.DefaultContent()
	}
	if err := ValidateContent(t, content); err != nil {
		return Widget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.geometry.FindNextPosition(s.data.Placements(), s.data.Settings.ShowHeaderImage, width, height)
	created := s.now()
	w := Widget{
		ID:       s.newID(),
		Type:     t,
		Content:  content,
		Position: pos,
		Size:     grid.Size{W: width, H: height},
		Created:  &created,
	}
	if s.data.Find(w.ID) >= 0 {
		return Widget{}, fmt.Errorf("%w: %s", ErrDuplicateWidget, w.ID)
	}
	s.data.Widgets = append(s.data.Widgets, w)
	s.changedLocked()

	s.logger.Debug("widget added", "id", w.ID, "type", t, "x", pos.X, "y", pos.Y, "w", width, "h", height)
	return w.clone(), nil
}

// UpdateWidget replaces the stored widget with the same id. Layout fields are
// taken as given; use ApplyLayout to move or resize with normalization.
func (s *Store) UpdateWidget(w Widget) error {
	if !w.Type.Valid() {
		return ErrInvalidWidgetType
	}
	if err := ValidateContent(w.Type, w.Content); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.data.Find(w.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, w.ID)
	}
	s.data.Widgets[idx] = w.clone()
	s.changedLocked()
	return nil
}

// UpdateContent replaces a widget's content.
func (s *Store) UpdateContent(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	full, err := s.resolveLocked(id)
	if err != nil {
		return err
	}
	idx := s.data.Find(full)
	if err := ValidateContent(s.data.Widgets[idx].Type, content); err != nil {
		return err
	}
	s.data.Widgets[idx].Content = content
	s.changedLocked()
	return nil
}

// RemoveWidget deletes a widget.
func (s *Store) RemoveWidget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	full, err := s.resolveLocked(id)
	if err != nil {
		return err
	}
	idx := s.data.Find(full)
	s.data.Widgets = append(s.data.Widgets[:idx], s.data.Widgets[idx+1:]...)
	s.changedLocked()

	s.logger.Debug("widget removed", "id", full)
	return nil
}

// ApplyLayout commits a layout reported after a drag or resize. Items may
// cover any subset of the widgets; widgets not mentioned keep their placement.
//
// The merged layout is normalized for the header band and snapping. When the
// canvas prevents collisions, a layout in which a moved or shifted widget
// overlaps another one is rejected and nothing changes. Non-finite
// coordinates are out of bounds.
func (s *Store) ApplyLayout(items []grid.LayoutItem) ([]grid.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := make(map[string]grid.LayoutItem, len(items))
	for _, it := range items {
		full, err := s.resolveLocked(it.I)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayoutItem, it.I)
		}
		if _, dup := moved[full]; dup {
			return nil, fmt.Errorf("%w: %s appears twice in layout", ErrDuplicateWidget, full)
		}
		if it.W <= 0 || it.H <= 0 {
			return nil, fmt.Errorf("%w: %s is %dx%d", ErrInvalidSize, full, it.W, it.H)
		}
		if !finite(it.X) || !finite(it.Y) {
			return nil, fmt.Errorf("%w: %s at (%g, %g)", ErrOutOfBounds, full, it.X, it.Y)
		}
		moved[full] = it
	}

	merged := s.data.Placements()
	for i, p := range merged {
		it, ok := moved[p.ID]
		if !ok {
			continue
		}
		merged[i].Position = grid.Position{X: it.X, Y: it.Y}
		merged[i].Size = grid.Size{W: it.W, H: it.H}
	}

	settings := s.data.Settings
	normalized := s.geometry.NormalizeLayout(merged, settings.ShowHeaderImage, settings.SnapToGrid)

	for _, p := range normalized {
		if _, ok := moved[p.ID]; !ok {
			continue
		}
		if p.Position.X < 0 || p.Position.Y < 0 || s.geometry.Overflows(p) {
			return nil, fmt.Errorf("%w: %s at (%g, %g) size %dx%d", ErrOutOfBounds, p.ID, p.Position.X, p.Position.Y, p.Size.W, p.Size.H)
		}
	}

	// Normalization can shift widgets nobody dragged, e.g. out of a header
	// band that was just turned on. Those count as moved too.
	touched := make(map[string]bool, len(normalized))
	for i, p := range normalized {
		_, ok := moved[p.ID]
		touched[p.ID] = ok || p.Position != merged[i].Position
	}

	if settings.Collision() == grid.CollisionPrevent {
		for _, pair := range grid.Collisions(normalized) {
			if touched[pair[0]] || touched[pair[1]] {
				return nil, fmt.Errorf("%w: %s and %s", ErrCollision, pair[0], pair[1])
			}
		}
	}

	for i, p := range normalized {
		s.data.Widgets[i].Position = p.Position
		s.data.Widgets[i].Size = p.Size
	}
	s.changedLocked()

	s.logger.Debug("layout applied", "items", len(items), "snap", settings.SnapToGrid, "header", settings.ShowHeaderImage)
	return normalized, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MoveWidget moves a single widget.
func (s *Store) MoveWidget(id string, x, y float64) (Widget, error) {
	w, err := s.Widget(id)
	if err != nil {
		return Widget{}, err
	}
	item := grid.LayoutItem{I: w.ID, X: x, Y: y, W: w.Size.W, H: w.Size.H}
	if _, err := s.ApplyLayout([]grid.LayoutItem{item}); err != nil {
		return Widget{}, err
	}
	return s.Widget(w.ID)
}

// ResizeWidget resizes a single widget in place.
func (s *Store) ResizeWidget(id string, width, height int) (Widget, error) {
	w, err := s.Widget(id)
	if err != nil {
		return Widget{}, err
	}
	item := grid.LayoutItem{I: w.ID, X: w.Position.X, Y: w.Position.Y, W: width, H: height}
	if _, err := s.ApplyLayout([]grid.LayoutItem{item}); err != nil {
		return Widget{}, err
	}
	return s.Widget(w.ID)
}

// Arrange re-flows all widgets in order using the placement planner.
func (s *Store) Arrange() {
	s.mu.Lock()
	defer s.mu.Unlock()

	arranged := s.geometry.Arrange(s.data.Placements(), s.data.Settings.ShowHeaderImage)
	for i, p := range arranged {
		s.data.Widgets[i].Position = p.Position
	}
	s.changedLocked()
}

// UpdateSettings applies a partial settings update and returns the result.
func (s *Store) UpdateSettings(patch SettingsPatch) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Settings = patch.Apply(s.data.Settings)
	s.changedLocked()
	return s.data.Settings
}

// SetTheme sets the canvas theme name.
func (s *Store) SetTheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Theme = name
	s.changedLocked()
}

// Replace swaps the whole canvas, e.g. after an import.
func (s *Store) Replace(data *CanvasData) error {
	if data == nil {
		return fmt.Errorf("replacing canvas: nil data")
	}
	seen := make(map[string]bool, len(data.Widgets))
	for _, w := range data.Widgets {
		if seen[w.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateWidget, w.ID)
		}
		seen[w.ID] = true
		if !w.Type.Valid() {
			return fmt.Errorf("widget %s: %w", w.ID, ErrInvalidWidgetType)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data.Clone()
	if s.data.Widgets == nil {
		s.data.Widgets = []Widget{}
	}
	s.changedLocked()
	return nil
}

// Flush saves pending changes now and cancels any scheduled save.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.save(ctx)
}

// Close flushes pending changes and stops autosaving. The repository is not closed.
func (s *Store) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// changedLocked marks the state dirty and (re)arms the autosave timer.
func (s *Store) changedLocked() {
	s.dirty = true
	if s.closed || s.debounce <= 0 {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.autosave)
}

func (s *Store) autosave() {
	if err := s.save(context.Background()); err != nil {
		s.logger.Error("autosave failed", "err", err)
	}
}

// save writes the latest state if dirty. Saves are serialized, and the
// snapshot is taken while holding saveMu so a later save never writes older
// data than an earlier one.
func (s *Store) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.data.Clone()
	s.dirty = false
	s.mu.Unlock()

	start := time.Now()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("saving canvas: %w", err)
	}
	s.logger.Debug("canvas saved", "widgets", len(snapshot.Widgets), "took", time.Since(start).Round(time.Millisecond))
	return nil
}
