package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/canvas"
)

func (a *App) addCmd() *cobra.Command {
	var (
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "add <type> [content]",
		Short: "Add a widget",
		Long: `Add a widget to the canvas. It is placed after the last widget of the
bottom row, or on a new row when it does not fit.

Types: markdown, todo, kanban, photo, music, book.
Without content the widget starts with its type's default: an empty todo
list, a kanban board with To Do / In Progress / Done columns, or a playlist.`,
		Example: `  tablero add markdown "# Reading list"
  tablero add todo
  tablero add photo https://example.com/cat.png --width=4 --height=4
  tablero add music https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := canvas.ParseWidgetType(args[0])
			if err != nil {
				return err
			}
			content := ""
			if len(args) == 2 {
				content = args[1]
			}
			size := t.DefaultSize()
			if width > 0 {
				size.W = width
			}
			if height > 0 {
				size.H = height
			}

			var w canvas.Widget
			err = a.mutate(cmd.Context(), func(s *canvas.Store) error {
				w, err = s.AddWidgetSized(t, strings.TrimSpace(content), size.W, size.H)
				return err
			})
			if err != nil {
				return fmt.Errorf("adding widget: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s at %s size %s\n",
				formatType(w.Type, string(w.Type)),
				formatID(shortID(w.ID)),
				formatPosition(w.Position),
				formatSize(w.Size))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Width in grid columns (default: type default)")
	cmd.Flags().IntVar(&height, "height", 0, "Height in grid rows (default: type default)")

	return cmd
}
