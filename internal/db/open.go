package db

import (
	"fmt"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/config"
)

// Open returns the repository selected by the storage config.
func Open(cfg config.StorageConfig) (canvas.Repository, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		s, err := New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendJSON:
		return NewJSONFile(cfg.JSONPath, cfg.Backups), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
