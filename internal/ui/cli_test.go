package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/config"
	"github.com/javiermolinar/tablero/internal/db"
	"github.com/javiermolinar/tablero/internal/grid"
)

// cliEnv runs commands against a JSON canvas file in a temp dir. Every run
// builds a fresh App, so state only survives through the file.
type cliEnv struct {
	t         *testing.T
	cfg       *config.Config
	clipboard string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendJSON
	cfg.Storage.JSONPath = filepath.Join(t.TempDir(), "canvas_state.json")
	cfg.Storage.Backups = 0
	return &cliEnv{t: t, cfg: cfg}
}

func (e *cliEnv) runWithInput(stdin string, args ...string) (string, error) {
	e.t.Helper()
	app := NewApp(e.cfg,
		WithLogger(log.New(io.Discard)),
		WithClipboard(func(s string) error {
			e.clipboard = s
			return nil
		}),
	)
	var out bytes.Buffer
	app.root.SetOut(&out)
	app.root.SetErr(io.Discard)
	app.root.SetIn(strings.NewReader(stdin))
	app.root.SetArgs(append([]string{"--no-color"}, args...))

	err := app.Execute()
	if cerr := app.Close(); cerr != nil {
		e.t.Fatalf("closing app: %v", cerr)
	}
	return out.String(), err
}

func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	return e.runWithInput("", args...)
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("tablero %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e *cliEnv) canvas() *canvas.CanvasData {
	e.t.Helper()
	data, err := db.NewJSONFile(e.cfg.Storage.JSONPath, 0).Load(context.Background())
	if err != nil {
		e.t.Fatalf("loading canvas: %v", err)
	}
	return data
}

// seed adds a markdown note (4x6 at 0,0) and a todo list (3x6 at 4,0) and
// returns their id prefixes.
func (e *cliEnv) seed() (note, todo string) {
	e.t.Helper()
	e.mustRun("add", "markdown", "# Notes")
	e.mustRun("add", "todo")
	data := e.canvas()
	if len(data.Widgets) != 2 {
		e.t.Fatalf("seeded %d widgets, want 2", len(data.Widgets))
	}
	return shortID(data.Widgets[0].ID), shortID(data.Widgets[1].ID)
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	if out := env.mustRun("version"); !strings.Contains(out, "tablero dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestAddPlacesWidgets(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("add", "markdown", "# Notes")
	if !strings.Contains(out, "Added markdown") || !strings.Contains(out, "at (0, 0) size 4x6") {
		t.Errorf("add output = %q", out)
	}
	out = env.mustRun("add", "todo")
	if !strings.Contains(out, "at (4, 0) size 3x6") {
		t.Errorf("second add output = %q", out)
	}
	env.mustRun("add", "photo", "https://example.com/cat.png", "--width=6", "--height=2")

	data := env.canvas()
	want := []grid.Position{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 6}}
	if len(data.Widgets) != len(want) {
		t.Fatalf("got %d widgets, want %d", len(data.Widgets), len(want))
	}
	for i, w := range data.Widgets {
		if w.Position != want[i] {
			t.Errorf("widget %d at %+v, want %+v", i, w.Position, want[i])
		}
	}
	if data.Widgets[1].Content != "[]" {
		t.Errorf("todo default content = %q", data.Widgets[1].Content)
	}
	if data.Widgets[2].Size != (grid.Size{W: 6, H: 2}) {
		t.Errorf("photo size = %+v", data.Widgets[2].Size)
	}
}

func TestAddErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown type", []string{"add", "chart"}, canvas.ErrInvalidWidgetType},
		{"too wide", []string{"add", "markdown", "--width=13"}, canvas.ErrWidgetTooWide},
		{"bad music url", []string{"add", "music", "not a url"}, canvas.ErrInvalidContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			if _, err := env.run(tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if n := len(env.canvas().Widgets); n != 0 {
				t.Errorf("canvas has %d widgets after a failed add", n)
			}
		})
	}
}

func TestListAndStats(t *testing.T) {
	env := newCLIEnv(t)
	if out := env.mustRun("list"); !strings.Contains(out, "No widgets yet") {
		t.Errorf("empty list output = %q", out)
	}

	note, todo := env.seed()
	env.mustRun("todo", "add", todo, "buy milk")

	out := env.mustRun("list")
	for _, want := range []string{"2 widgets", note, todo, "Notes", "Todo List", "0/1 done"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun("stats")
	for _, want := range []string{"2 widgets", "Rows used: 6", "markdown: 1", "todo: 1", "0/1 done, 1 open"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestMoveHonorsCollisionPolicy(t *testing.T) {
	env := newCLIEnv(t)
	note, _ := env.seed()

	if _, err := env.run("move", note, "4", "0"); !errors.Is(err, canvas.ErrCollision) {
		t.Fatalf("move onto todo: error = %v, want ErrCollision", err)
	}
	if got := env.canvas().Widgets[0].Position; got != (grid.Position{X: 0, Y: 0}) {
		t.Errorf("rejected move changed position to %+v", got)
	}

	out := env.mustRun("move", note, "8", "0")
	if !strings.Contains(out, "to (8, 0)") {
		t.Errorf("move output = %q", out)
	}

	env.mustRun("settings", "--collision=allow")
	env.mustRun("move", note, "5", "0")
	if got := env.canvas().Widgets[0].Position; got != (grid.Position{X: 5, Y: 0}) {
		t.Errorf("position with collisions allowed = %+v", got)
	}
	if out := env.mustRun("stats"); !strings.Contains(out, "Overlap:") {
		t.Errorf("stats should report the overlap:\n%s", out)
	}
}

func TestMoveOutOfBounds(t *testing.T) {
	env := newCLIEnv(t)
	note, _ := env.seed()

	if _, err := env.run("move", note, "10", "0"); !errors.Is(err, canvas.ErrOutOfBounds) {
		t.Errorf("error = %v, want ErrOutOfBounds", err)
	}
	if _, err := env.run("move", note, "left", "0"); err == nil {
		t.Error("expected an error for a non-numeric x")
	}
	for _, bad := range []string{"NaN", "Inf"} {
		if _, err := env.run("move", note, bad, "0"); err == nil {
			t.Errorf("expected an error for x=%s", bad)
		}
	}
	if _, err := env.run("move", "zzzz", "0", "0"); !errors.Is(err, canvas.ErrWidgetNotFound) {
		t.Errorf("error = %v, want ErrWidgetNotFound", err)
	}
}

func TestResizeRemoveArrange(t *testing.T) {
	env := newCLIEnv(t)
	note, todo := env.seed()

	if out := env.mustRun("resize", todo, "3", "2"); !strings.Contains(out, "3x2") {
		t.Errorf("resize output = %q", out)
	}
	if _, err := env.run("resize", todo, "0", "2"); err == nil {
		t.Error("expected an error for zero width")
	}

	env.mustRun("remove", note)
	data := env.canvas()
	if len(data.Widgets) != 1 || shortID(data.Widgets[0].ID) != todo {
		t.Fatalf("widgets after remove = %+v", data.Widgets)
	}

	out := env.mustRun("arrange")
	if !strings.Contains(out, "Arranged 1 widget") {
		t.Errorf("arrange output = %q", out)
	}
	if got := env.canvas().Widgets[0].Position; got != (grid.Position{X: 0, Y: 0}) {
		t.Errorf("arranged position = %+v, want origin", got)
	}
}

func TestLayoutApply(t *testing.T) {
	env := newCLIEnv(t)
	note, _ := env.seed()
	env.mustRun("settings", "--header")

	layout := `[{"i":"` + note + `","x":0,"y":6.4,"w":4,"h":3}]`
	out, err := env.runWithInput(layout, "layout", "apply")
	if err != nil {
		t.Fatalf("layout apply: %v", err)
	}
	if !strings.Contains(out, `"y": 6.4`) {
		t.Errorf("applied layout output = %s", out)
	}

	data := env.canvas()
	if got := data.Widgets[0].Placement(); got.Position.Y != 6.4 || got.Size.H != 3 {
		t.Errorf("note placement = %+v", got)
	}
	// Untouched widgets are still normalized onto the header band.
	if got := data.Widgets[1].Position; got != (grid.Position{X: 4, Y: 2}) {
		t.Errorf("todo position = %+v, want snapped below the header", got)
	}

	if _, err := env.runWithInput(`[{"i":"nope","x":0,"y":0,"w":1,"h":1}]`, "layout", "apply", "-"); !errors.Is(err, canvas.ErrUnknownLayoutItem) {
		t.Errorf("error = %v, want ErrUnknownLayoutItem", err)
	}
	if _, err := env.runWithInput(`{`, "layout", "apply"); err == nil {
		t.Error("expected a parse error")
	}

	out = env.mustRun("layout", "get")
	if !strings.Contains(out, `"i": "`+data.Widgets[0].ID+`"`) {
		t.Errorf("layout get output = %s", out)
	}
}

func TestEditAndItems(t *testing.T) {
	env := newCLIEnv(t)
	note, todo := env.seed()
	env.mustRun("add", "kanban")
	board := shortID(env.canvas().Widgets[2].ID)

	env.mustRun("edit", note, "# Groceries\neggs")
	if _, err := env.runWithInput("# From stdin\n", "edit", note); err != nil {
		t.Fatalf("edit from stdin: %v", err)
	}
	if got := env.canvas().Widgets[0].Content; got != "# From stdin" {
		t.Errorf("note content = %q", got)
	}
	if _, err := env.run("edit", todo, "not json"); !errors.Is(err, canvas.ErrInvalidContent) {
		t.Errorf("error = %v, want ErrInvalidContent", err)
	}

	env.mustRun("todo", "add", todo, "milk")
	env.mustRun("todo", "add", todo, "eggs")
	if out := env.mustRun("todo", "toggle", todo, "2"); !strings.Contains(out, "1/2 done") {
		t.Errorf("toggle output = %q", out)
	}
	if _, err := env.run("todo", "toggle", todo, "3"); !errors.Is(err, canvas.ErrInvalidContent) {
		t.Errorf("toggle out of range: %v", err)
	}
	if _, err := env.run("todo", "add", note, "milk"); err == nil {
		t.Error("expected an error adding a todo to a markdown widget")
	}
	out := env.mustRun("todo", "list", todo)
	if !strings.Contains(out, "milk") || !strings.Contains(out, "✓") {
		t.Errorf("todo list output = %q", out)
	}

	env.mustRun("kanban", "add", board, "ship it", "--label=release")
	b, err := canvas.ParseKanban(env.canvas().Widgets[2].Content)
	if err != nil {
		t.Fatal(err)
	}
	card := b.Columns[0].Cards[0]
	if card.Content != "ship it" || len(card.Labels) != 1 {
		t.Fatalf("card = %+v", card)
	}

	env.mustRun("kanban", "move", board, card.ID[:6], "done")
	b, _ = canvas.ParseKanban(env.canvas().Widgets[2].Content)
	if len(b.Columns[0].Cards) != 0 || len(b.Columns[2].Cards) != 1 {
		t.Errorf("board after move = %+v", b)
	}
	if out := env.mustRun("kanban", "list", board); !strings.Contains(out, "Done") || !strings.Contains(out, "ship it") {
		t.Errorf("kanban list output = %q", out)
	}
	if _, err := env.run("kanban", "add", board, "x", "--column=later"); !errors.Is(err, canvas.ErrInvalidContent) {
		t.Errorf("unknown column: %v", err)
	}
}

func TestSettingsAndTheme(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("settings")
	if !strings.Contains(out, "collision         = prevent") {
		t.Errorf("settings output = %q", out)
	}

	env.mustRun("settings", "--header", "--snap", "--header-image=https://example.com/h.png", "--zoom=1.5")
	s := env.canvas().Settings
	if !s.ShowHeaderImage || !s.SnapToGrid || s.ZoomLevel != 1.5 || s.HeaderImage == nil {
		t.Errorf("settings = %+v", s)
	}
	if !s.PreventCollision {
		t.Error("unchanged settings should keep their values")
	}

	if _, err := env.run("settings", "--collision=sometimes"); err == nil {
		t.Error("expected an error for an unknown collision policy")
	}
	if _, err := env.run("settings", "--grid-size=0"); err == nil {
		t.Error("expected an error for grid-size 0")
	}

	env.mustRun("theme", "mocha")
	if got := env.canvas().Theme; got != "mocha" {
		t.Errorf("theme = %q", got)
	}
	if out := env.mustRun("theme"); !strings.Contains(out, "* mocha") {
		t.Errorf("theme list = %q", out)
	}
	if _, err := env.run("theme", "neon"); err == nil {
		t.Error("expected an error for an unknown theme")
	}
}

func TestShow(t *testing.T) {
	env := newCLIEnv(t)
	env.seed()

	out := env.mustRun("show", "--width=48")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("show printed %d lines, want 6 grid rows and a summary", len(lines))
	}
	if !strings.Contains(lines[0], "Notes") || !strings.Contains(lines[0], "Todo List") {
		t.Errorf("first row = %q", lines[0])
	}
	if !strings.Contains(lines[6], "2 widgets") {
		t.Errorf("summary line = %q", lines[6])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{formatJSON, formatYAML} {
		t.Run(format, func(t *testing.T) {
			src := newCLIEnv(t)
			_, todo := src.seed()
			src.mustRun("todo", "add", todo, "milk")
			src.mustRun("theme", "latte")

			path := filepath.Join(t.TempDir(), "export."+format)
			src.mustRun("export", "--format="+format, "--output="+path)

			dst := newCLIEnv(t)
			dst.mustRun("add", "book")
			out := dst.mustRun("import", path)
			if !strings.Contains(out, "Imported 2 widgets") {
				t.Errorf("import output = %q", out)
			}

			want, got := src.canvas(), dst.canvas()
			if got.Theme != "latte" || len(got.Widgets) != len(want.Widgets) {
				t.Fatalf("imported canvas = %+v", got)
			}
			for i := range want.Widgets {
				w, g := want.Widgets[i], got.Widgets[i]
				if w.ID != g.ID || w.Content != g.Content || w.Placement() != g.Placement() {
					t.Errorf("widget %d = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestExportClipboardAndStdout(t *testing.T) {
	env := newCLIEnv(t)
	env.seed()

	out := env.mustRun("export")
	if !strings.Contains(out, `"widget_type": "markdown"`) {
		t.Errorf("json export = %s", out)
	}
	out = env.mustRun("export", "--format=yaml")
	if !strings.Contains(out, "widget_type: markdown") {
		t.Errorf("yaml export = %s", out)
	}

	env.mustRun("export", "--clipboard")
	if !strings.Contains(env.clipboard, `"widgets"`) {
		t.Errorf("clipboard = %q", env.clipboard)
	}
	if _, err := env.run("export", "--format=xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a canvas", `{"theme": "dark"}`},
		{"unknown widget type", `{"widgets": [{"id": "a", "widget_type": "chart", "position": {"x": 0, "y": 0}, "size": {"width": 1, "height": 1}}]}`},
		{"negative position", `{"widgets": [{"id": "a", "widget_type": "book", "position": {"x": -1, "y": 0}, "size": {"width": 1, "height": 1}}]}`},
		{"bad todo content", `{"widgets": [{"id": "a", "widget_type": "todo", "content": "{", "position": {"x": 0, "y": 0}, "size": {"width": 1, "height": 1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			env.mustRun("add", "book")
			path := filepath.Join(t.TempDir(), "bad.json")
			writeFile(t, path, tt.doc)

			if _, err := env.run("import", path); err == nil {
				t.Fatal("expected import to fail")
			}
			if n := len(env.canvas().Widgets); n != 1 {
				t.Errorf("failed import changed the canvas: %d widgets", n)
			}
		})
	}

	env := newCLIEnv(t)
	if _, err := env.run("import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
