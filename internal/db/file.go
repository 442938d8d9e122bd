package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/tablero/internal/canvas"
)

// BackupsDirName is the directory, next to the state file, holding backups.
const BackupsDirName = "backups"

// JSONFile implements canvas.Repository on a single pretty-printed JSON file.
//
// Saves are transactional: the new state goes to a temp file which is synced
// and renamed over the old one. The previous file is first copied to a
// timestamped backup; only the newest Backups copies are kept. Load falls back
// to the newest backup when the file is unreadable or corrupt.
type JSONFile struct {
	Path    string
	Backups int

	now func() time.Time
}

// NewJSONFile returns a repository for the file at path keeping up to backups copies.
func NewJSONFile(path string, backups int) *JSONFile {
	return &JSONFile{Path: path, Backups: backups, now: time.Now}
}

// Load reads the canvas. A missing file yields a default canvas.
func (f *JSONFile) Load(context.Context) (*canvas.CanvasData, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		if data, berr := f.loadLatestBackup(); berr == nil {
			return data, nil
		}
		return canvas.Default(), nil
	}
	if err != nil {
		data, berr := f.loadLatestBackup()
		if berr != nil {
			return nil, fmt.Errorf("reading canvas file: %w; backup attempt: %v", err, berr)
		}
		return data, nil
	}

	data, err := decodeCanvas(raw)
	if err != nil {
		data, berr := f.loadLatestBackup()
		if berr != nil {
			return nil, fmt.Errorf("parsing canvas file: %w; backup attempt: %v", err, berr)
		}
		return data, nil
	}
	return data, nil
}

// Save writes the canvas, backing up the previous file first.
func (f *JSONFile) Save(_ context.Context, data *canvas.CanvasData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding canvas: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating canvas directory: %w", err)
	}

	if f.Backups > 0 {
		if err := f.backup(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := writeSync(tmp, raw); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing canvas file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open between saves.
func (f *JSONFile) Close() error { return nil }

// BackupFiles returns the backup paths, oldest first.
func (f *JSONFile) BackupFiles() ([]string, error) {
	bdir := filepath.Join(filepath.Dir(f.Path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, err
	}
	prefix := filepath.Base(f.Path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields chronological order
	return out, nil
}

func (f *JSONFile) backup() error {
	if _, err := os.Stat(f.Path); err != nil {
		return nil // nothing to back up yet
	}
	bdir := filepath.Join(filepath.Dir(f.Path), BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("creating backups directory: %w", err)
	}

	stamp := f.now().UTC().Format("20060102-150405.000000000")
	bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(f.Path), stamp))
	if err := copyFile(f.Path, bpath); err != nil {
		return fmt.Errorf("backing up canvas file: %w", err)
	}
	return f.prune()
}

// prune removes all but the newest Backups backups.
func (f *JSONFile) prune() error {
	files, err := f.BackupFiles()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	for len(files) > f.Backups {
		if err := os.Remove(files[0]); err != nil {
			return fmt.Errorf("removing old backup: %w", err)
		}
		files = files[1:]
	}
	return nil
}

func (f *JSONFile) loadLatestBackup() (*canvas.CanvasData, error) {
	files, err := f.BackupFiles()
	if err != nil {
		return nil, fmt.Errorf("reading backups: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no backups found")
	}
	raw, err := os.ReadFile(files[len(files)-1])
	if err != nil {
		return nil, fmt.Errorf("reading latest backup: %w", err)
	}
	return decodeCanvas(raw)
}

// writeSync writes data to an open file, flushes it to disk, and closes it.
func writeSync(file *os.File, data []byte) (err error) {
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := file.Write(data); err != nil {
		return err
	}
	return file.Sync()
}

// copyFile copies src to dst, overwriting dst.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()

	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(df, sf); err != nil {
		_ = df.Close()
		return err
	}
	return writeSync(df, nil)
}
