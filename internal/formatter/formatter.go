// package formatter exports tracklists to shareable formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/tracklist"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText}

// ParseFormat resolves a format name. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// Ext returns the file extension used for f.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Mix is a tracklist with the metadata shown alongside it.
type Mix struct {
	Name        string
	Description string
	Artwork     string // file name or URL referenced by the Markdown export
	Tags        []string
	Tracks      tracklist.Tracklist
}

// ExportToCSV converts a Mix to CSV format with columns: Position, Start, Seconds, Artist, Title
func ExportToCSV(mix *Mix) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Start", "Seconds", "Artist", "Title"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, e := range mix.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			tracklist.FormatTimestamp(e.StartSeconds),
			strconv.Itoa(e.StartSeconds),
			e.Artist,
			e.Title,
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

// ExportToMarkdown converts a Mix to Markdown with an optional cover image
func ExportToMarkdown(mix *Mix) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", mix.Name))

	if mix.Artwork != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", mix.Artwork))
	}

	if mix.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", mix.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(mix.Tracks)))
	if len(mix.Tags) > 0 {
		buf.WriteString(fmt.Sprintf("**Tags**: %s\n", strings.Join(mix.Tags, ", ")))
	}
	buf.WriteString("\n## Tracklist\n\n")

	for i, e := range mix.Tracks {
		buf.WriteString(fmt.Sprintf("%d. `%s` %s\n", i+1, tracklist.FormatTimestamp(e.StartSeconds), trackLine(e)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Mix to plain text format
func ExportToText(mix *Mix) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Mix: %s\n", mix.Name))
	if mix.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", mix.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(mix.Tracks)))

	for i, e := range mix.Tracks {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, tracklist.FormatTimestamp(e.StartSeconds), trackLine(e)))
	}

	return buf.Bytes(), nil
}

func trackLine(e tracklist.Entry) string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Artist + " - " + e.Title
}

// Export renders mix in the given format.
func Export(mix *Mix, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(mix)
	case FormatMarkdown:
		return ExportToMarkdown(mix)
	case FormatText:
		return ExportToText(mix)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
}

// WriteExport renders mix and writes it to path, creating parent directories.
//
// Defaults to tracklist{ext} in the working directory.
func WriteExport(mix *Mix, format Format, path string) (string, error) {
	if path == "" {
		path = "tracklist" + format.Ext()
	}

	data, err := Export(mix, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
