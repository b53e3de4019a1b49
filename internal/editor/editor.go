// Package editor lets the user revise a tracklist in their text editor.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/tracklist"
)

// DefaultEditor is used when neither an explicit command nor $EDITOR is set.
const DefaultEditor = "vim"

// Opts configures [Edit]. Zero values attach the editor to the process's terminal.
type Opts struct {
	// Command is the editor command line, split on whitespace. Defaults to $EDITOR, then [DefaultEditor].
	Command string
	// Dir holds the temporary file. Defaults to [os.TempDir].
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

func (o *Opts) defaults() {
	if o.Command == "" {
		o.Command = os.Getenv("EDITOR")
	}
	if strings.TrimSpace(o.Command) == "" {
		o.Command = DefaultEditor
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Edit writes t in tabular form to a temporary file, opens it in the editor and parses the result.
//
// Clearing a non-empty tracklist aborts with [shared.ErrAborted].
// A malformed start time is returned as a [tracklist.FormatError] so the caller can offer another round.
func Edit(ctx context.Context, t tracklist.Tracklist, opts Opts) (tracklist.Tracklist, error) {
	opts.defaults()

	f, err := os.CreateTemp(opts.Dir, "tracklist-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := tracklist.WriteTabular(path, t); err != nil {
		return nil, err
	}

	args := strings.Fields(opts.Command)
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	opts.Logger.Debug("Opening editor", "command", opts.Command, "file", path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("editor %q failed: %w", opts.Command, err)
	}

	edited, err := tracklist.ReadTabular(path)
	if err != nil {
		return nil, err
	}

	if len(t) > 0 && len(edited) == 0 {
		return nil, fmt.Errorf("%w: empty tracklist", shared.ErrAborted)
	}
	return edited, nil
}
