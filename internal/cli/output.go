package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// render writes data in the selected output format. text renders the
// human-readable form; a nil text falls back to YAML.
func (a *app) render(w io.Writer, data any, text func(io.Writer) error) error {
	switch strings.ToLower(a.outputFormat) {
	case "json":
		return printJSON(w, data)
	case "yaml":
		return printYAML(w, data)
	case "text", "":
		if text == nil {
			return printYAML(w, data)
		}
		return text(w)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", a.outputFormat)
	}
}

// printJSON outputs data as formatted JSON
func printJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// printYAML outputs data as YAML
func printYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return encoder.Close()
}

// printTable outputs data in a human-readable table format
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(headers)
	seps := make([]string, len(widths))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	line(seps)
	for _, row := range rows {
		line(row)
	}
}
