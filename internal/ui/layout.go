package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/grid"
)

func (a *App) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Move a widget",
		Long: `Move a widget to grid column x and row y. Positions are normalized the
same way as a drag: rows just below the header snap onto it, and x is
rounded when snapping is on.`,
		Example: `  tablero move 1a2b 4 0
  tablero move 1a2b 2.5 6`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseCoord("x", args[1])
			if err != nil {
				return err
			}
			y, err := parseCoord("y", args[2])
			if err != nil {
				return err
			}

			var w canvas.Widget
			err = a.mutate(cmd.Context(), func(s *canvas.Store) error {
				w, err = s.MoveWidget(args[0], x, y)
				return err
			})
			if err != nil {
				return fmt.Errorf("moving widget: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", formatID(shortID(w.ID)), formatPosition(w.Position))
			return nil
		},
	}
}

func (a *App) resizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <width> <height>",
		Short: "Resize a widget",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := parseSpan("width", args[1])
			if err != nil {
				return err
			}
			height, err := parseSpan("height", args[2])
			if err != nil {
				return err
			}

			var w canvas.Widget
			err = a.mutate(cmd.Context(), func(s *canvas.Store) error {
				w, err = s.ResizeWidget(args[0], width, height)
				return err
			})
			if err != nil {
				return fmt.Errorf("resizing widget: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resized %s to %s\n", formatID(shortID(w.ID)), formatSize(w.Size))
			return nil
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a widget",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed canvas.Widget
			err := a.mutate(cmd.Context(), func(s *canvas.Store) error {
				w, err := s.Widget(args[0])
				if err != nil {
					return err
				}
				removed = w
				return s.RemoveWidget(w.ID)
			})
			if err != nil {
				return fmt.Errorf("removing widget: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n",
				formatType(removed.Type, string(removed.Type)), formatID(shortID(removed.ID)))
			return nil
		},
	}
}

func (a *App) arrangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "arrange",
		Short: "Re-flow all widgets in order",
		Long: `Place every widget again, in list order, as if each were added to an
empty canvas one after the other. Sizes are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var n int
			err := a.mutate(cmd.Context(), func(s *canvas.Store) error {
				s.Arrange()
				n = len(s.Snapshot().Widgets)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Arranged %s\n", plural(n, "widget"))
			return nil
		},
	}
}

func (a *App) layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Read or apply the grid layout",
		Long: `The layout is a JSON array of {"i", "x", "y", "w", "h"} items, the
format grid front ends report after a drag or resize.`,
	}
	cmd.AddCommand(a.layoutGetCmd(), a.layoutApplyCmd())
	return cmd
}

func (a *App) layoutGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current layout as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), grid.ToLayout(data.Placements()))
		},
	}
}

func (a *App) layoutApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [file|-]",
		Short: "Apply a layout reported by a grid front end",
		Long: `Apply a layout. Items may cover any subset of the widgets and ids may be
unique prefixes. The merged layout is normalized, and when the canvas
prevents collisions a layout that makes a moved widget overlap another is
rejected without changing anything.

Reads standard input when no file or "-" is given.`,
		Example: `  echo '[{"i":"1a2b","x":0,"y":2.3,"w":4,"h":6}]' | tablero layout apply`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			var items []grid.LayoutItem
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("parsing layout: %w", err)
			}

			var normalized []grid.Placement
			err = a.mutate(cmd.Context(), func(s *canvas.Store) error {
				normalized, err = s.ApplyLayout(items)
				return err
			})
			if err != nil {
				return fmt.Errorf("applying layout: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), grid.ToLayout(normalized))
		},
	}
}

func parseCoord(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number, got %q", name, v)
	}
	return f, nil
}

func parseSpan(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}

// readInput reads the file named by args[0], or r when it is absent or "-".
func readInput(r io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	path, err := resolvePath(args[0])
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
