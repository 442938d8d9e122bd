package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/config"
	"github.com/javiermolinar/tablero/internal/db"
	"github.com/javiermolinar/tablero/internal/logging"
	"github.com/javiermolinar/tablero/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config    *config.Config
	logger    *log.Logger
	logFile   io.Closer
	repo      canvas.Repository
	store     *canvas.Store
	clipboard func(string) error
	root      *cobra.Command
	debug     bool // Enable debug logging
	noColor   bool
}

// Option configures an App.
type Option func(*App)

// WithRepository uses repo instead of opening the configured storage.
func WithRepository(repo canvas.Repository) Option {
	return func(a *App) { a.repo = repo }
}

// WithLogger uses l instead of the logger described by the config.
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(a *App) { a.clipboard = write }
}

// NewApp creates a new CLI application. Logging is set up once flags are
// parsed and storage is opened on first use.
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg, clipboard: clipboard.WriteAll}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "tablero",
		Short: "A widget dashboard for the terminal",
		Long: `Tablero keeps a personal dashboard of widgets on a 12-column grid:
notes, todo lists, kanban boards, photos, music and books.

Run without arguments to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if err := a.setupLogging(); err != nil {
				return err
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debounce, err := a.config.Debounce()
			if err != nil {
				return err
			}
			if err := a.ensureStore(cmd.Context(), debounce); err != nil {
				return err
			}
			return tui.Run(a.store, a.config, a.logger)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.statsCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.arrangeCmd())
	a.root.AddCommand(a.layoutCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.todoCmd())
	a.root.AddCommand(a.kanbanCmd())
	a.root.AddCommand(a.settingsCmd())
	a.root.AddCommand(a.themeCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablero %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close flushes pending canvas changes, then closes the storage and log file.
func (a *App) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close(context.Background())
	}
	if a.repo != nil {
		if cerr := a.repo.Close(); err == nil {
			err = cerr
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	return err
}

func (a *App) setupLogging() error {
	if a.logger != nil {
		if a.debug {
			a.logger.SetLevel(log.DebugLevel)
		}
		return nil
	}
	logger, closer, err := logging.Setup(a.config.Log, a.debug)
	if err != nil {
		return err
	}
	a.logger, a.logFile = logger, closer
	return nil
}

// ensureRepo opens the configured storage backend once.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := db.Open(a.config.Storage)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

// ensureStore loads the canvas into a store. A zero debounce disables
// autosave; one-shot commands save through mutate instead.
func (a *App) ensureStore(ctx context.Context, debounce time.Duration) error {
	if a.store != nil {
		return nil
	}
	if err := a.ensureRepo(); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	logger.Debug("opening canvas", "backend", a.config.Storage.Backend, "autosave", debounce)
	store := canvas.NewStore(a.repo,
		canvas.WithGeometry(a.config.Geometry()),
		canvas.WithDebounce(debounce),
		canvas.WithLogger(logger),
	)
	if err := store.Load(ctx); err != nil {
		return err
	}
	a.store = store
	return nil
}

// snapshot returns the current canvas.
func (a *App) snapshot(ctx context.Context) (*canvas.CanvasData, error) {
	if err := a.ensureStore(ctx, 0); err != nil {
		return nil, err
	}
	return a.store.Snapshot(), nil
}

// mutate runs fn against the store and saves the result.
func (a *App) mutate(ctx context.Context, fn func(s *canvas.Store) error) error {
	if err := a.ensureStore(ctx, 0); err != nil {
		return err
	}
	if err := fn(a.store); err != nil {
		return err
	}
	if err := a.store.Flush(ctx); err != nil {
		return fmt.Errorf("saving canvas: %w", err)
	}
	return nil
}
