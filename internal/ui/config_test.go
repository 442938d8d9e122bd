package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/tablero/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestConfigInteractiveCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tablero", "config.toml")
	var out bytes.Buffer

	if err := runConfigInteractive(strings.NewReader("n\n"), &out, path); err != nil {
		t.Fatalf("runConfigInteractive: %v", err)
	}
	if !strings.Contains(out.String(), "Created "+path) {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "[grid]") {
		t.Errorf("config should be printed:\n%s", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("loading created config: %v", err)
	}
	if cfg.Grid.Cols != 12 {
		t.Errorf("cols = %d, want 12", cfg.Grid.Cols)
	}
}

func TestConfigInteractiveEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	answers := strings.Join([]string{
		"y",     // edit
		"",      // cols
		"60",    // row height
		"500ms", // debounce
		"json",  // backend
		"",      // db path
		"",      // json path
		"x",     // backups, rejected
		"2",     // backups
		"neon",  // theme, rejected
		"latte", // theme
		"debug", // log level
		"",      // log file
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := runConfigInteractive(strings.NewReader(answers), &out, path); err != nil {
		t.Fatalf("runConfigInteractive: %v\n%s", err, out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if cfg.Grid.RowHeight != 60 || cfg.Canvas.AutosaveDebounce != "500ms" {
		t.Errorf("grid/canvas = %+v %+v", cfg.Grid, cfg.Canvas)
	}
	if cfg.Storage.Backend != config.BackendJSON || cfg.Storage.Backups != 2 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.UI.Theme != "latte" || cfg.Log.Level != "debug" {
		t.Errorf("ui/log = %+v %+v", cfg.UI, cfg.Log)
	}
	if !strings.Contains(out.String(), "Invalid theme") || !strings.Contains(out.String(), "is not a number") {
		t.Errorf("rejected answers should be reported:\n%s", out.String())
	}
}
