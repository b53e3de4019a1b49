// Package audio transcodes raw recordings into uploadable mp3 files using FFmpeg.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixup/internal/shared"
)

const (
	defaultBitrate    = "320k"
	defaultID3Version = "3"
)

// Transcoder converts a recording into the upload format.
type Transcoder interface {
	Transcode(ctx context.Context, params TranscodeParams) error
}

// TranscodeParams describes a single transcode.
//
// Trim cuts the output at the given offset. FadeIn and FadeOut apply linear fades at the start and end;
// the fade-out ends at Trim, or at the probed input duration when not trimming.
type TranscodeParams struct {
	Input   string
	Output  string
	Trim    time.Duration
	FadeIn  time.Duration
	FadeOut time.Duration
	Bitrate string
	// Force re-transcodes even if Output exists.
	Force bool
}

// Variant names the settings that change the encoded audio, e.g. "trim5m0s-in2s".
// It is empty when the input is encoded as is.
func (p TranscodeParams) Variant() string {
	var parts []string
	if p.Trim > 0 {
		parts = append(parts, "trim"+p.Trim.String())
	}
	if p.FadeIn > 0 {
		parts = append(parts, "in"+p.FadeIn.String())
	}
	if p.FadeOut > 0 {
		parts = append(parts, "out"+p.FadeOut.String())
	}
	if p.Bitrate != "" {
		parts = append(parts, p.Bitrate)
	}
	return strings.Join(parts, "-")
}

// ffmpegError wraps FFmpeg command errors with additional context
type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("%v: %s\nCommand: %s\nOutput: %s", shared.ErrTranscodeFailed, e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

func (e *ffmpegError) Is(target error) bool {
	return target == shared.ErrTranscodeFailed
}

// newFFmpegError creates a new ffmpegError with truncated command and output
func newFFmpegError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	out := strings.TrimSpace(string(output))
	if len(out) > 2000 {
		out = "..." + out[len(out)-2000:]
	}
	return &ffmpegError{cmd: cmdStr, output: out, wrapped: err}
}

// FFmpeg shells out to the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	Binary string
	Probe  string
	logger *log.Logger
}

// NewFFmpeg creates an engine using the binaries found on PATH. A nil logger uses [log.Default].
func NewFFmpeg(logger *log.Logger) *FFmpeg {
	if logger == nil {
		logger = log.Default()
	}
	return &FFmpeg{Binary: "ffmpeg", Probe: "ffprobe", logger: logger}
}

func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", shared.ErrRecordingNotFound, path)
		}
		return fmt.Errorf("unable to access file: %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", shared.ErrInvalidInput, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", shared.ErrInvalidInput, path)
	}
	return nil
}

// Transcode writes params.Input to params.Output as mp3. An existing output is reused unless Force is set.
func (f *FFmpeg) Transcode(ctx context.Context, params TranscodeParams) error {
	if params.Output == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if !params.Force {
		if _, err := os.Stat(params.Output); err == nil {
			f.logger.Info("Output exists, skipping transcode", "output", params.Output)
			return nil
		}
	}

	if err := validateFile(params.Input); err != nil {
		return fmt.Errorf("transcode failed: %w", err)
	}

	var end time.Duration
	if params.FadeOut > 0 {
		end = params.Trim
		if end == 0 {
			d, err := f.Duration(ctx, params.Input)
			if err != nil {
				return fmt.Errorf("could not determine fade-out position: %w", err)
			}
			end = d
		}
	}

	if err := os.MkdirAll(filepath.Dir(params.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	args := buildArgs(params, end)
	f.logger.Debug("Transcoding", "input", params.Input, "output", params.Output, "trim", params.Trim)

	cmd := exec.CommandContext(ctx, f.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		os.Remove(params.Output)
		return newFFmpegError(cmd, output, err)
	}

	f.logger.Info("Transcoded recording", "output", params.Output)
	return nil
}

// Duration returns the length of the media file at path as reported by ffprobe.
func (f *FFmpeg) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, f.Probe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, newFFmpegError(cmd, exitErr.Stderr, err)
		}
		return 0, newFFmpegError(cmd, nil, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, newFFmpegError(cmd, output, fmt.Errorf("unexpected duration: %w", err))
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// buildArgs returns the ffmpeg arguments for params. end is where a fade-out finishes.
func buildArgs(params TranscodeParams, end time.Duration) []string {
	bitrate := params.Bitrate
	if bitrate == "" {
		bitrate = defaultBitrate
	}

	args := []string{"-y", "-i", params.Input}
	if params.Trim > 0 {
		args = append(args, "-t", seconds(params.Trim))
	}

	args = append(args,
		"-map", "0:a",
		"-c:a", "libmp3lame",
		"-b:a", bitrate,
	)

	var filters []string
	if params.FadeIn > 0 {
		filters = append(filters, fmt.Sprintf("afade=t=in:st=0:d=%s", seconds(params.FadeIn)))
	}
	if params.FadeOut > 0 {
		start := max(end-params.FadeOut, 0)
		filters = append(filters, fmt.Sprintf("afade=t=out:st=%s:d=%s", seconds(start), seconds(params.FadeOut)))
	}
	if len(filters) > 0 {
		args = append(args, "-af", strings.Join(filters, ","))
	}

	return append(args, "-id3v2_version", defaultID3Version, params.Output)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
