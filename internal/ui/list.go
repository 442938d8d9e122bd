package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/summary"
)

func (a *App) listCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List widgets in layout order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(data.Widgets) == 0 {
				fmt.Fprintln(out, "No widgets yet. Add one with 'tablero add <type>'.")
				return nil
			}

			maxTitle := 40
			if verbose {
				// "  id        type      (x, y)       WxH    " is about 42 cells
				maxTitle = max(termWidth()-42, maxTitle)
			}

			fmt.Fprintf(out, "=== %s ===\n", formatHeader(plural(len(data.Widgets), "widget")))
			for _, w := range data.Widgets {
				printWidgetRow(out, w, maxTitle)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Use the full terminal width for titles")
	return cmd
}

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show canvas statistics",
		Long: `Summarize the saved canvas: widgets per type, rows used, todo progress,
kanban cards per column, and any overlapping or off-grid widgets.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			s, err := summary.BuildSummary(cmd.Context(), a.repo, a.config.Geometry())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
}
