package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/config"
	"github.com/javiermolinar/tablero/internal/db"
	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/schema"
	"github.com/javiermolinar/tablero/internal/summary"
)

var backends = []string{config.BackendSQLite, config.BackendJSON}

// storageConfig returns a storage config for backend rooted in dir.
func storageConfig(dir, backend string) config.StorageConfig {
	return config.StorageConfig{
		Backend:  backend,
		DBPath:   filepath.Join(dir, "tablero.db"),
		JSONPath: filepath.Join(dir, "canvas_state.json"),
		Backups:  2,
	}
}

// openRepo opens a repository with automatic cleanup.
func openRepo(t *testing.T, cfg config.StorageConfig) canvas.Repository {
	t.Helper()
	repo, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// openStore opens a store on repo without autosave and loads it.
func openStore(t *testing.T, repo canvas.Repository) *canvas.Store {
	t.Helper()
	store := canvas.NewStore(repo, canvas.WithDebounce(0))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return store
}

// addWidget adds a widget or fails the test.
func addWidget(t *testing.T, store *canvas.Store, typ canvas.WidgetType, content string) canvas.Widget {
	t.Helper()
	w, err := store.AddWidget(typ, content)
	if err != nil {
		t.Fatalf("failed to add %s widget: %v", typ, err)
	}
	return w
}

func forEachBackend(t *testing.T, fn func(t *testing.T, cfg config.StorageConfig)) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			fn(t, storageConfig(t.TempDir(), backend))
		})
	}
}

func TestCanvasSurvivesReopen(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg config.StorageConfig) {
		ctx := context.Background()
		store := openStore(t, openRepo(t, cfg))

		note := addWidget(t, store, canvas.TypeMarkdown, "# Plans")
		todo := addWidget(t, store, canvas.TypeTodo, "")
		board := addWidget(t, store, canvas.TypeKanban, "")

		content, err := canvas.AddTodo(todo.Content, "write tests")
		if err != nil {
			t.Fatal(err)
		}
		if err := store.UpdateContent(todo.ID, content); err != nil {
			t.Fatal(err)
		}
		store.SetTheme("frappe")
		if err := store.Close(ctx); err != nil {
			t.Fatalf("failed to close store: %v", err)
		}

		reopened := openStore(t, openRepo(t, cfg))
		data := reopened.Snapshot()
		if data.Theme != "frappe" {
			t.Errorf("theme = %q, want frappe", data.Theme)
		}
		if len(data.Widgets) != 3 {
			t.Fatalf("got %d widgets, want 3", len(data.Widgets))
		}

		wantPos := map[string]grid.Position{
			note.ID:  {X: 0, Y: 0},
			todo.ID:  {X: 4, Y: 0},
			board.ID: {X: 0, Y: 6},
		}
		for _, w := range data.Widgets {
			if w.Position != wantPos[w.ID] {
				t.Errorf("%s at %+v, want %+v", w.Type, w.Position, wantPos[w.ID])
			}
		}

		items, err := canvas.ParseTodos(data.Widgets[1].Content)
		if err != nil || len(items) != 1 || items[0].Text != "write tests" {
			t.Errorf("todo items = %+v, %v", items, err)
		}
	})
}

func TestApplyLayoutPersistsNormalizedPositions(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg config.StorageConfig) {
		ctx := context.Background()
		repo := openRepo(t, cfg)
		store := openStore(t, repo)

		a := addWidget(t, store, canvas.TypeMarkdown, "a")
		b := addWidget(t, store, canvas.TypeBook, "b")
		show, snap := true, true
		store.UpdateSettings(canvas.SettingsPatch{ShowHeaderImage: &show, SnapToGrid: &snap})

		_, err := store.ApplyLayout([]grid.LayoutItem{
			{I: a.ID, X: 0.4, Y: 2.5, W: 4, H: 6},
			{I: b.ID[:8], X: 4.6, Y: 9, W: 3, H: 5},
		})
		if err != nil {
			t.Fatalf("ApplyLayout: %v", err)
		}

		// A rejected layout must not reach storage.
		_, err = store.ApplyLayout([]grid.LayoutItem{{I: b.ID, X: 1, Y: 3, W: 3, H: 5}})
		if !errors.Is(err, canvas.ErrCollision) {
			t.Fatalf("overlapping layout error = %v, want ErrCollision", err)
		}
		if err := store.Flush(ctx); err != nil {
			t.Fatal(err)
		}

		data, err := repo.Load(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []grid.Position{{X: 0, Y: 2}, {X: 5, Y: 9}}
		for i, w := range data.Widgets {
			if w.Position != want[i] {
				t.Errorf("widget %d persisted at %+v, want %+v", i, w.Position, want[i])
			}
		}
	})
}

func TestAutosaveAfterDebounce(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg config.StorageConfig) {
		ctx := context.Background()
		repo := openRepo(t, cfg)
		store := canvas.NewStore(repo, canvas.WithDebounce(20*time.Millisecond))
		if err := store.Load(ctx); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = store.Close(ctx) })

		addWidget(t, store, canvas.TypePhoto, "https://example.com/a.png")
		addWidget(t, store, canvas.TypePhoto, "https://example.com/b.png")

		deadline := time.Now().Add(3 * time.Second)
		for {
			data, err := repo.Load(ctx)
			if err == nil && len(data.Widgets) == 2 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("autosave did not persist both widgets (err=%v)", err)
			}
			time.Sleep(10 * time.Millisecond)
		}
		if store.Dirty() {
			t.Error("store still dirty after autosave")
		}
	})
}

func TestConcurrentAdds(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg config.StorageConfig) {
		ctx := context.Background()
		repo := openRepo(t, cfg)
		store := canvas.NewStore(repo, canvas.WithDebounce(time.Millisecond))
		if err := store.Load(ctx); err != nil {
			t.Fatal(err)
		}

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.AddWidgetSized(canvas.TypeMarkdown, fmt.Sprintf("# note %d", i), 3, 2)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("concurrent add: %v", err)
			}
		}
		if err := store.Close(ctx); err != nil {
			t.Fatal(err)
		}

		data, err := repo.Load(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(data.Widgets) != n {
			t.Fatalf("persisted %d widgets, want %d", len(data.Widgets), n)
		}
		if pairs := grid.Collisions(data.Placements()); len(pairs) != 0 {
			t.Errorf("uniform widgets should never overlap, got %v", pairs)
		}
		s := summary.Summarize(data, grid.Default())
		if s.RowsUsed != 10 {
			t.Errorf("rows used = %g, want 10 (four widgets per row)", s.RowsUsed)
		}
	})
}

func TestJSONFallsBackToBackup(t *testing.T) {
	ctx := context.Background()
	cfg := storageConfig(t.TempDir(), config.BackendJSON)
	store := openStore(t, openRepo(t, cfg))

	addWidget(t, store, canvas.TypeBook, "first")
	if err := store.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	addWidget(t, store, canvas.TypeBook, "second")
	if err := store.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(cfg.JSONPath, []byte("{ truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	recovered := openStore(t, openRepo(t, cfg))
	if n := len(recovered.Snapshot().Widgets); n != 1 {
		t.Errorf("recovered %d widgets from backup, want 1", n)
	}
}

func TestMigrateJSONExportIntoSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := openStore(t, openRepo(t, storageConfig(dir, config.BackendJSON)))
	addWidget(t, src, canvas.TypeMusic, "https://open.spotify.com/track/abc123")
	addWidget(t, src, canvas.TypeKanban, "")
	if err := src.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "canvas_state.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := schema.Validate(raw); err != nil {
		t.Fatalf("saved canvas_state.json fails the schema: %v", err)
	}
	var data canvas.CanvasData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}

	sqliteRepo := openRepo(t, storageConfig(dir, config.BackendSQLite))
	dst := openStore(t, sqliteRepo)
	if err := dst.Replace(&data); err != nil {
		t.Fatal(err)
	}
	if err := dst.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	s, err := summary.BuildSummary(ctx, sqliteRepo, grid.Default())
	if err != nil {
		t.Fatal(err)
	}
	if s.Widgets != 2 || s.ByType[canvas.TypeMusic] != 1 || len(s.KanbanCards) != 3 {
		t.Errorf("summary after migration = %+v", s)
	}
}
