package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/mixup/internal/formatter"
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/tracklist"
	"github.com/desertthunder/mixup/internal/ui"
	"github.com/urfave/cli/v3"
)

// readTracklist loads a cue sheet, or tabular text for any other extension.
func readTracklist(path string) (tracklist.Tracklist, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path to a tracklist is required", shared.ErrMissingArgument)
	}
	path = shared.ExpandHome(path)
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return tracklist.ReadCue(path)
	}
	return tracklist.ReadTabular(path)
}

// TracklistShow prints a tracklist as a table, tabular text, or JSON.
func (r *Runner) TracklistShow(ctx context.Context, cmd *cli.Command) error {
	t, err := readTracklist(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	if trim := cmd.Duration("trim"); trim > 0 {
		t = tracklist.Trim(t, trim)
	}

	switch {
	case cmd.Bool("json"):
		if t == nil {
			t = tracklist.Tracklist{}
		}
		return r.writeJSON(t, cmd.Bool("pretty"))
	case cmd.Bool("tabular"):
		return r.writePlain("%s\n", tracklist.FormatTabular(t, tracklist.DefaultSeparator))
	default:
		return r.writePlain("%s\n", ui.RenderTracklist(t))
	}
}

// TracklistEdit opens a tracklist in the editor and writes the result in tabular form.
func (r *Runner) TracklistEdit(ctx context.Context, cmd *cli.Command) error {
	t, err := readTracklist(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	edited, err := r.edit(ctx, t)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return r.writePlain("%s\n", tracklist.FormatTabular(edited, tracklist.DefaultSeparator))
	}

	output = shared.ExpandHome(output)
	if err := tracklist.WriteTabular(output, edited); err != nil {
		return err
	}
	r.logger.Info("Tracklist written", "path", output, "tracks", len(edited))
	return nil
}

// exportFormat picks the format from the flag, then the output extension.
func exportFormat(flag, output string) (formatter.Format, error) {
	if flag != "" {
		return formatter.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".csv":
		return formatter.FormatCSV, nil
	case ".md", ".markdown":
		return formatter.FormatMarkdown, nil
	}
	return formatter.FormatText, nil
}

// TracklistExport renders a tracklist as CSV, Markdown or plain text.
func (r *Runner) TracklistExport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	t, err := readTracklist(path)
	if err != nil {
		return err
	}
	if trim := cmd.Duration("trim"); trim > 0 {
		t = tracklist.Trim(t, trim)
	}

	output := shared.ExpandHome(cmd.String("output"))
	format, err := exportFormat(cmd.String("format"), output)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	mix := &formatter.Mix{
		Name:        name,
		Description: cmd.String("description"),
		Artwork:     cmd.String("artwork"),
		Tracks:      t,
	}

	if output == "" {
		data, err := formatter.Export(mix, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	written, err := formatter.WriteExport(mix, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("Tracklist exported", "path", written, "format", format, "tracks", len(t))
	return nil
}
