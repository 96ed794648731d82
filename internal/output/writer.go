// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package output renders command results as text, YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// TextWriter is implemented by reports that have a human readable form.
type TextWriter interface {
	WriteText(out io.Writer) error
}

// Writer handles writing reports to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON output (default: 2 spaces)
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{
		Indent: 2,
	}
}

// Write renders v in format. Text falls back to YAML for values that do not
// implement TextWriter.
func (w *Writer) Write(v any, out io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		if tw, ok := v.(TextWriter); ok {
			return tw.WriteText(out)
		}
		return w.WriteYAML(v, out)
	case FormatYAML, "yml":
		return w.WriteYAML(v, out)
	case FormatJSON:
		return w.WriteJSON(v, out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteYAML writes v as YAML to the given writer.
func (w *Writer) WriteYAML(v any, out io.Writer) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// WriteJSON writes v as JSON to the given writer.
func (w *Writer) WriteJSON(v any, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", w.Indent))

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteFile writes v to a file.
// If format is empty, it is inferred from the file extension.
func (w *Writer) WriteFile(v any, path string, format string) error {
	// Infer format from extension if not specified
	if format == "" {
		format = FormatFromPath(path)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Create file
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return w.Write(v, file, format)
}

// FormatFromPath infers a format from a file extension, defaulting to text.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// ToYAML returns the YAML representation of v as a string.
func (w *Writer) ToYAML(v any) (string, error) {
	var buf strings.Builder
	if err := w.WriteYAML(v, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToJSON returns the JSON representation of v as a string.
func (w *Writer) ToJSON(v any) (string, error) {
	var buf strings.Builder
	if err := w.WriteJSON(v, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
