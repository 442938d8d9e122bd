package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/tablero/internal/canvas"
	"github.com/javiermolinar/tablero/internal/schema"
)

// Export formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format string
		output string
		toClip bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the canvas",
		Long: `Write the whole canvas (theme, settings, widgets) as JSON or YAML.
The JSON form is the canvas_state.json format and can be imported back.`,
		Example: `  tablero export > canvas.json
  tablero export --format=yaml --output=canvas.yaml
  tablero export --clipboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			encoded, err := encodeCanvas(data, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case toClip:
				if err := a.clipboard(string(encoded)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(out, "Copied %s (%s) to the clipboard\n", plural(len(data.Widgets), "widget"), format)
			case output != "":
				path, err := resolvePath(output)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, encoded, 0o644); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				fmt.Fprintf(out, "Exported %s to %s\n", plural(len(data.Widgets), "widget"), path)
			default:
				_, err := out.Write(encoded)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&toClip, "clipboard", false, "Copy to the system clipboard")

	return cmd
}

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the canvas with an exported one",
		Long: `Replace the whole canvas with the contents of a JSON or YAML export
(or a canvas_state.json file). The document is checked against the canvas
schema first; nothing changes if it does not match.`,
		Example: `  tablero import ~/backup/canvas_state.json
  tablero import canvas.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("import file does not exist: %s", path)
				}
				return fmt.Errorf("checking import file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("import path is a directory: %s", path)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}
			data, err := decodeCanvas(raw, formatFromPath(path))
			if err != nil {
				return err
			}

			err = a.mutate(cmd.Context(), func(s *canvas.Store) error {
				return s.Replace(data)
			})
			if err != nil {
				return fmt.Errorf("importing canvas: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s from %s\n", plural(len(data.Widgets), "widget"), path)
			return nil
		},
	}
}

// encodeCanvas renders data in the given format. YAML keys match the JSON ones.
func encodeCanvas(data *canvas.CanvasData, format string) ([]byte, error) {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding canvas: %w", err)
	}
	switch format {
	case formatJSON:
		return append(raw, '\n'), nil
	case formatYAML:
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("encoding canvas: %w", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding canvas as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding canvas as yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q, use %s or %s", format, formatJSON, formatYAML)
	}
}

// decodeCanvas validates and decodes an exported canvas.
func decodeCanvas(raw []byte, format string) (*canvas.CanvasData, error) {
	if format == formatYAML {
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("converting yaml: %w", err)
		}
		raw = converted
	}

	if err := schema.Validate(raw); err != nil {
		return nil, err
	}
	var data canvas.CanvasData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing canvas: %w", err)
	}
	for _, w := range data.Widgets {
		if err := canvas.ValidateContent(w.Type, w.Content); err != nil {
			return nil, fmt.Errorf("widget %s: %w", shortID(w.ID), err)
		}
	}
	return &data, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
