// package formatter renders command history to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Render converts entries to the given format.
func Render(format Format, entries []*models.HistoryEntry) ([]byte, error) {
	switch format {
	case FormatText:
		return ExportToText(entries)
	case FormatCSV:
		return ExportToCSV(entries)
	case FormatMarkdown:
		return ExportToMarkdown(entries)
	case FormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// ExportToCSV converts entries to CSV format with columns: ID, Time, Source, Command, Status, Error
func ExportToCSV(entries []*models.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Time", "Source", "Command", "Status", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.CreatedAt.UTC().Format(time.RFC3339),
			string(entry.Source),
			entry.Command,
			strconv.Itoa(entry.Status),
			entry.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts entries to a Markdown table.
func ExportToMarkdown(entries []*models.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Command History\n\n")
	fmt.Fprintf(&buf, "**Entries**: %d\n\n", len(entries))

	if len(entries) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| Time | Source | Command | Status | Error |\n")
	buf.WriteString("|------|--------|---------|--------|-------|\n")
	for _, entry := range entries {
		fmt.Fprintf(&buf, "| %s | %s | %s | %d | %s |\n",
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.Source,
			escapeCell(entry.Command),
			entry.Status,
			escapeCell(entry.Error),
		)
	}

	return buf.Bytes(), nil
}

// ExportToText converts entries to aligned plain text, one entry per line.
func ExportToText(entries []*models.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString("No commands recorded\n")
		return buf.Bytes(), nil
	}

	for _, entry := range entries {
		mark := "✓"
		if !entry.Succeeded() {
			mark = "✗"
		}
		fmt.Fprintf(&buf, "%s %s  %-5s  %-10s %d",
			mark,
			entry.CreatedAt.Local().Format(time.DateTime),
			entry.Source,
			entry.Command,
			entry.Status,
		)
		if entry.Error != "" {
			fmt.Fprintf(&buf, "  %s", entry.Error)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteExport renders entries and writes them to path, creating parent directories.
//
// The format defaults to the one implied by the file extension when format is empty.
func WriteExport(entries []*models.HistoryEntry, path string, format Format) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if format == "" {
		var err error
		if format, err = ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err != nil {
			return "", err
		}
	}

	data, err := Render(format, entries)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
