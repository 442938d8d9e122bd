package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tablero/internal/config"
	"github.com/javiermolinar/tablero/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  tablero config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Grid.Cols = promptInt(reader, out, "Grid columns", cfg.Grid.Cols)
	cfg.Grid.RowHeight = promptInt(reader, out, "Row height (px)", cfg.Grid.RowHeight)
	cfg.Canvas.AutosaveDebounce = promptValue(reader, out, "Autosave debounce (e.g. 1s, 0 disables)", cfg.Canvas.AutosaveDebounce)
	cfg.Storage.Backend = promptValue(reader, out, "Storage backend (sqlite, json)", cfg.Storage.Backend)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Storage.JSONPath = promptValue(reader, out, "JSON state path", cfg.Storage.JSONPath)
	cfg.Storage.Backups = promptInt(reader, out, "JSON backups to keep", cfg.Storage.Backups)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.Log.Level = promptValue(reader, out, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.Log.File = promptValue(reader, out, "Log file (empty logs to stderr)", cfg.Log.File)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	themeName := cfg.UI.Theme
	if themeName == "" {
		themeName = "(canvas theme)"
	}
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "(stderr)"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[grid]")
	fmt.Fprintf(out, "  cols              = %d\n", cfg.Grid.Cols)
	fmt.Fprintf(out, "  row_height        = %d\n", cfg.Grid.RowHeight)
	fmt.Fprintf(out, "  header_height     = %d\n", cfg.Grid.HeaderHeight)
	fmt.Fprintf(out, "  header_margin     = %d\n", cfg.Grid.HeaderMargin)
	fmt.Fprintln(out, "\n[canvas]")
	fmt.Fprintf(out, "  autosave_debounce = %s\n", cfg.Canvas.AutosaveDebounce)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  backend           = %s\n", cfg.Storage.Backend)
	fmt.Fprintf(out, "  db_path           = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(out, "  json_path         = %s\n", cfg.Storage.JSONPath)
	fmt.Fprintf(out, "  backups           = %d\n", cfg.Storage.Backups)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme             = %s\n", themeName)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level             = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  file              = %s\n", logFile)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  %q is not a number\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s, empty follows the canvas)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if value == "" || theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
