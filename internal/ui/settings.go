package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
	"github.com/javiermolinar/tablero/internal/tui/theme"
)

func (a *App) settingsCmd() *cobra.Command {
	var (
		header      bool
		headerImage string
		snap        bool
		collision   string
		gridDots    bool
		gridSize    int
		background  string
		zoom        float64
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change canvas settings",
		Long: `Without flags, print the canvas settings. With flags, change only the
settings given.

--header reserves the top rows of the grid for the header image. Widgets
are not moved when it changes; the next layout change snaps them below it.`,
		Example: `  tablero settings
  tablero settings --header --snap=false
  tablero settings --collision=allow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			var patch canvas.SettingsPatch
			if flags.Changed("header") {
				patch.ShowHeaderImage = &header
			}
			if flags.Changed("header-image") {
				patch.HeaderImage = &headerImage
			}
			if flags.Changed("snap") {
				patch.SnapToGrid = &snap
			}
			if flags.Changed("collision") {
				policy, err := grid.ParseCollisionPolicy(collision)
				if err != nil {
					return err
				}
				prevent := policy == grid.CollisionPrevent
				patch.PreventCollision = &prevent
			}
			if flags.Changed("grid") {
				patch.GridEnabled = &gridDots
			}
			if flags.Changed("grid-size") {
				if gridSize <= 0 {
					return fmt.Errorf("grid-size must be positive, got %d", gridSize)
				}
				patch.GridSize = &gridSize
			}
			if flags.Changed("background") {
				patch.BackgroundColor = &background
			}
			if flags.Changed("zoom") {
				if zoom <= 0 {
					return fmt.Errorf("zoom must be positive, got %g", zoom)
				}
				patch.ZoomLevel = &zoom
			}

			out := cmd.OutOrStdout()
			if patch == (canvas.SettingsPatch{}) {
				data, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatHeader("Canvas settings:"))
				printSettings(out, data.Settings)
				return nil
			}

			var updated canvas.Settings
			err := a.mutate(cmd.Context(), func(s *canvas.Store) error {
				updated = s.UpdateSettings(patch)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatHeader("Settings updated:"))
			printSettings(out, updated)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&header, "header", false, "Reserve rows for the header image")
	f.StringVar(&headerImage, "header-image", "", "Header image URL (empty clears it)")
	f.BoolVar(&snap, "snap", false, "Snap x positions to whole columns")
	f.StringVar(&collision, "collision", "", "Collision policy: prevent or allow")
	f.BoolVar(&gridDots, "grid", true, "Show grid dots")
	f.IntVar(&gridSize, "grid-size", 0, "Grid dot spacing in pixels")
	f.StringVar(&background, "background", "", "Canvas background color")
	f.Float64Var(&zoom, "zoom", 0, "Zoom level")

	return cmd
}

func (a *App) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or set the canvas theme",
		Long: fmt.Sprintf(`Without a name, list the available themes and mark the current one.

Available: %s`, strings.Join(theme.Available(), ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				data, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range theme.Available() {
					if name == data.Theme {
						fmt.Fprintf(out, "* %s\n", formatHeader(name))
					} else {
						fmt.Fprintf(out, "  %s\n", name)
					}
				}
				if a.config.UI.Theme != "" && a.config.UI.Theme != data.Theme {
					fmt.Fprintln(out, formatMuted(fmt.Sprintf("The TUI uses %q from the config file.", a.config.UI.Theme)))
				}
				return nil
			}

			name := strings.ToLower(strings.TrimSpace(args[0]))
			if !theme.IsAvailable(name) {
				return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(theme.Available(), ", "))
			}
			err := a.mutate(cmd.Context(), func(s *canvas.Store) error {
				s.SetTheme(name)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Theme set to %s\n", name)
			return nil
		},
	}
}
