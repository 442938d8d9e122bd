package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/summary"
	"github.com/javiermolinar/tablero/internal/tui"
)

func (a *App) showCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the canvas grid",
		Long: `Draw the canvas to the terminal without opening the interactive view.
Each grid row is one line; each column a fixed number of cells.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			if width <= 0 {
				width = termWidth()
			}

			themeName := a.config.UI.Theme
			if themeName == "" {
				themeName = data.Theme
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.Snapshot(data, a.config.Geometry(), themeName, width))
			s := summary.Summarize(data, a.config.Geometry())
			fmt.Fprintf(out, "%s  |  Rows used: %g\n", plural(s.Widgets, "widget"), s.RowsUsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Output width in cells (default: terminal width)")
	return cmd
}
