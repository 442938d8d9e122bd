package canvas

import "context"

// Repository defines the persistence interface for canvas state.
type Repository interface {
	// Load returns the stored canvas, or Default() if nothing was saved yet.
	Load(ctx context.Context) (*CanvasData, error)

	// Save replaces the stored canvas.
	Save(ctx context.Context, data *CanvasData) error

	// Close releases any resources held by the repository.
	Close() error
}
