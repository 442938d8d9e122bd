package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/canvas"
)

func (a *App) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> [content|-]",
		Short: "Replace a widget's content",
		Long: `Replace a widget's content. Reads standard input when content is "-" or
missing. Todo and kanban content must be the JSON those widgets store; use
'tablero todo' and 'tablero kanban' to change them item by item.`,
		Example: `  tablero edit 1a2b "# Groceries"
  cat notes.md | tablero edit 1a2b -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if len(args) == 2 && args[1] != "-" {
				content = args[1]
			} else {
				raw, err := readInput(cmd.InOrStdin(), nil)
				if err != nil {
					return err
				}
				content = strings.TrimRight(string(raw), "\n")
			}

			var w canvas.Widget
			err := a.mutate(cmd.Context(), func(s *canvas.Store) error {
				var err error
				if w, err = s.Widget(args[0]); err != nil {
					return err
				}
				return s.UpdateContent(w.ID, content)
			})
			if err != nil {
				return fmt.Errorf("editing widget: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatID(shortID(w.ID)))
			return nil
		},
	}
}

// updateContent rewrites a widget's content with fn after checking its type.
func (a *App) updateContent(cmd *cobra.Command, id string, want canvas.WidgetType, fn func(content string) (string, error)) (canvas.Widget, error) {
	var w canvas.Widget
	err := a.mutate(cmd.Context(), func(s *canvas.Store) error {
		var err error
		if w, err = s.Widget(id); err != nil {
			return err
		}
		if w.Type != want {
			return fmt.Errorf("widget %s is a %s widget, not %s", shortID(w.ID), w.Type, want)
		}
		content, err := fn(w.Content)
		if err != nil {
			return err
		}
		if err := s.UpdateContent(w.ID, content); err != nil {
			return err
		}
		w.Content = content
		return nil
	})
	return w, err
}

func (a *App) todoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todo list items",
	}

	add := &cobra.Command{
		Use:   "add <id> <text>",
		Short: "Add an item to a todo list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.updateContent(cmd, args[0], canvas.TypeTodo, func(content string) (string, error) {
				return canvas.AddTodo(content, args[1])
			})
			if err != nil {
				return fmt.Errorf("adding todo: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added todo to %s (%s)\n", formatID(shortID(w.ID)), widgetDetail(w))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id> <n>",
		Short: "Mark item n (starting at 1) done or not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSpan("item number", args[1])
			if err != nil {
				return err
			}
			w, err := a.updateContent(cmd, args[0], canvas.TypeTodo, func(content string) (string, error) {
				return canvas.ToggleTodo(content, n-1)
			})
			if err != nil {
				return fmt.Errorf("toggling todo: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Toggled item %d of %s (%s)\n", n, formatID(shortID(w.ID)), widgetDetail(w))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <id>",
		Short: "List the items of a todo list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(cmd.Context(), 0); err != nil {
				return err
			}
			w, err := a.store.Widget(args[0])
			if err != nil {
				return err
			}
			items, err := canvas.ParseTodos(w.Content)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, it := range items {
				mark := "○"
				text := it.Text
				if it.Completed {
					mark = formatStats("✓")
					text = formatMuted(text)
				}
				fmt.Fprintf(out, "  %2d  %s  %s\n", i+1, mark, text)
			}
			return nil
		},
	}

	cmd.AddCommand(add, toggle, list)
	return cmd
}

func (a *App) kanbanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Manage kanban cards",
	}

	var (
		column string
		labels []string
	)
	add := &cobra.Command{
		Use:   "add <id> <text>",
		Short: "Add a card to a kanban board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.updateContent(cmd, args[0], canvas.TypeKanban, func(content string) (string, error) {
				return canvas.AddCard(content, column, args[1], labels...)
			})
			if err != nil {
				return fmt.Errorf("adding card: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added card to %s/%s (%s)\n", formatID(shortID(w.ID)), column, widgetDetail(w))
			return nil
		},
	}
	add.Flags().StringVar(&column, "column", "todo", "Column id: todo, in-progress, done")
	add.Flags().StringSliceVar(&labels, "label", nil, "Card label (repeatable)")

	move := &cobra.Command{
		Use:   "move <id> <card> <column>",
		Short: "Move a card to another column",
		Long:  `Move a card, given by id or unique id prefix, to the end of another column.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.updateContent(cmd, args[0], canvas.TypeKanban, func(content string) (string, error) {
				return canvas.MoveCard(content, args[1], args[2])
			})
			if err != nil {
				return fmt.Errorf("moving card: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved card %s to %s on %s\n", args[1], args[2], formatID(shortID(w.ID)))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <id>",
		Short: "List the cards of a kanban board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(cmd.Context(), 0); err != nil {
				return err
			}
			w, err := a.store.Widget(args[0])
			if err != nil {
				return err
			}
			board, err := canvas.ParseKanban(w.Content)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, col := range board.Columns {
				fmt.Fprintf(out, "%s %s\n", formatHeader(col.Title), formatMuted("("+col.ID+", "+strconv.Itoa(len(col.Cards))+")"))
				for _, card := range col.Cards {
					line := fmt.Sprintf("  %s  %s", formatID(shortID(card.ID)), card.Content)
					if len(card.Labels) > 0 {
						line += "  " + formatMuted(strings.Join(card.Labels, ", "))
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(add, move, list)
	return cmd
}
