package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixup/internal/audio"
	"github.com/desertthunder/mixup/internal/formatter"
	"github.com/desertthunder/mixup/internal/models"
	"github.com/desertthunder/mixup/internal/recordings"
	"github.com/desertthunder/mixup/internal/repositories"
	"github.com/desertthunder/mixup/internal/services"
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/tracklist"
	"github.com/desertthunder/mixup/internal/ui"
	"github.com/urfave/cli/v3"
)

type uploadOptions struct {
	credentials

	recordingsDir string
	recording     string
	outputDir     string
	name          string
	artwork       string
	description   string
	preset        string
	tags          []string
	trim          time.Duration
	fadeIn        time.Duration
	fadeOut       time.Duration
	export        string
	force         bool
	dryRun        bool
}

func (r *Runner) uploadOptions(cmd *cli.Command) uploadOptions {
	o := uploadOptions{
		credentials:   r.credentialsFrom(cmd),
		recordingsDir: cmd.String("recordings-dir"),
		recording:     cmd.String("recording"),
		outputDir:     cmd.String("output-dir"),
		name:          strings.TrimSpace(cmd.String("name")),
		artwork:       cmd.String("artwork"),
		description:   cmd.String("description"),
		preset:        cmd.String("preset"),
		tags:          splitTags(cmd.String("tags")),
		trim:          cmd.Duration("trim"),
		fadeIn:        cmd.Duration("fade-in"),
		fadeOut:       cmd.Duration("fade-out"),
		export:        shared.ExpandHome(cmd.String("export")),
		force:         cmd.Bool("force"),
		dryRun:        cmd.Bool("dry-run"),
	}
	o.interactive = !cmd.Bool("noninteractive")

	if o.recordingsDir == "" {
		o.recordingsDir = r.config.Paths.RecordingsDir
	}
	if o.outputDir == "" {
		o.outputDir = r.config.Paths.OutputDir
	}
	o.recordingsDir = shared.ExpandHome(o.recordingsDir)
	o.outputDir = shared.ExpandHome(o.outputDir)
	o.artwork = shared.ExpandHome(o.artwork)
	return o
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Upload transcodes a recording, lets the user review its tracklist and publishes it.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	opts := r.uploadOptions(cmd)
	logger := shared.WithLogger(r.logger, "run", shared.GenerateID()[:8])

	svc := r.service("")
	if !opts.dryRun || (opts.preset != "" && opts.name == "") {
		token, err := r.resolveToken(ctx, opts.credentials, logger)
		if err != nil {
			return err
		}
		svc = r.service(token)
	}

	if err := r.applyPreset(ctx, svc, &opts); err != nil {
		return err
	}

	if opts.name == "" {
		if !opts.interactive {
			return fmt.Errorf("%w: specify a name with --name or use a preset from %s", shared.ErrMissingArgument, r.configPath)
		}
		name, err := r.prompter.Prompt("Name for the mix?", "")
		if err != nil {
			return err
		}
		opts.name = name
	}

	rec, err := recordings.Find(opts.recordingsDir, opts.recording)
	if err != nil {
		return err
	}
	logger.Info("Using recording", "name", rec.Name, "audio", rec.Audio)
	r.warnIfUploaded(logger, rec)

	outDir := opts.outputDir
	if outDir == "" {
		tmp, err := os.MkdirTemp("", "mixup-output-")
		if err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		defer os.RemoveAll(tmp)
		outDir = tmp
	}

	params := audio.TranscodeParams{
		Input:   rec.Audio,
		Trim:    opts.trim,
		FadeIn:  opts.fadeIn,
		FadeOut: opts.fadeOut,
		Force:   opts.force,
	}
	params.Output = recordings.OutputPath(outDir, rec, params.Variant())
	audioPath := params.Output
	logger.Info("Transcoding", "input", rec.Audio, "output", audioPath)
	if err := r.transcoder.Transcode(ctx, params); err != nil {
		return err
	}

	tracks, err := r.prepareTracklist(ctx, rec, opts, logger)
	if err != nil {
		return err
	}

	r.writePlainln("%s", ui.Title(opts.name))
	r.writePlain("%s\n", ui.RenderTracklist(tracks))

	if opts.export != "" {
		if err := r.exportTracklist(opts, tracks, logger); err != nil {
			return err
		}
	}

	if opts.dryRun {
		logger.Info("Dry run, not uploading", "audio", audioPath, "tracks", len(tracks))
		return nil
	}

	if opts.interactive {
		ok, err := r.prompter.Confirm(fmt.Sprintf("Upload %q with %d tracks?", opts.name, len(tracks)))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: upload declined", shared.ErrAborted)
		}
	}

	logger.Info("Uploading", "name", opts.name, "tags", opts.tags)
	result, err := svc.Upload(ctx, services.UploadParams{
		AudioPath:   audioPath,
		ArtworkPath: opts.artwork,
		Name:        opts.name,
		Description: opts.description,
		Tags:        opts.tags,
		Tracks:      tracks,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	upload := models.NewUpload(opts.name, rec.Name, audioPath, opts.tags, len(tracks))
	upload.SetKey(result.Key)
	r.recordUpload(logger, upload)

	r.writePlain("%s\n", ui.Success("✓ Uploaded "+opts.name))
	if url := result.URL(); url != "" {
		r.writePlain("%s\n", url)
	}
	return nil
}

// applyPreset fills the options the user didn't set from the named preset.
func (r *Runner) applyPreset(ctx context.Context, svc services.Service, opts *uploadOptions) error {
	if opts.preset == "" {
		return nil
	}

	preset, err := r.config.Preset(opts.preset)
	if err != nil {
		return err
	}

	if opts.name == "" && preset.Name != "" {
		name, err := svc.NextName(ctx, preset.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve preset name: %w", err)
		}
		opts.name = name
	}
	if opts.artwork == "" {
		opts.artwork = preset.Artwork
	}
	if len(opts.tags) == 0 {
		opts.tags = preset.Tags
	}
	if opts.description == "" {
		opts.description = preset.Description
	}
	return nil
}

// prepareTracklist reads the cue sheet, trims it and, when interactive, opens it in the editor.
// A malformed edit can be retried; the retry starts from the original tracklist.
func (r *Runner) prepareTracklist(ctx context.Context, rec *recordings.Recording, opts uploadOptions, logger *log.Logger) (tracklist.Tracklist, error) {
	tracks, err := tracklist.ReadCue(rec.Cue)
	if err != nil {
		return nil, err
	}
	if opts.trim > 0 {
		tracks = tracklist.Trim(tracks, opts.trim)
	}

	if !opts.interactive {
		return tracks, nil
	}

	for {
		edited, err := r.edit(ctx, tracks)
		var formatErr *tracklist.FormatError
		if errors.As(err, &formatErr) {
			logger.Warn("Could not parse edited tracklist", "error", err)
			again, promptErr := r.prompter.Confirm("Edit again?")
			if promptErr != nil {
				return nil, promptErr
			}
			if !again {
				return nil, fmt.Errorf("%w: %v", shared.ErrAborted, err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return edited, nil
	}
}

// exportTracklist writes the reviewed tracklist next to the upload, in the format implied by the path.
func (r *Runner) exportTracklist(opts uploadOptions, tracks tracklist.Tracklist, logger *log.Logger) error {
	format, err := exportFormat("", opts.export)
	if err != nil {
		return err
	}
	mix := &formatter.Mix{
		Name:        opts.name,
		Description: opts.description,
		Tags:        opts.tags,
		Tracks:      tracks,
	}
	if opts.artwork != "" {
		mix.Artwork = filepath.Base(opts.artwork)
	}

	path, err := formatter.WriteExport(mix, format, opts.export)
	if err != nil {
		return err
	}
	logger.Info("Tracklist exported", "path", path, "format", format)
	return nil
}

// withUploads opens the history database for fn.
func (r *Runner) withUploads(fn func(repo *repositories.UploadRepository) error) error {
	db, err := shared.OpenDatabase(shared.ExpandHome(r.config.Paths.Database))
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(repositories.NewUploadRepository(db))
}

// warnIfUploaded logs when rec appears in the upload history. History errors are not fatal.
func (r *Runner) warnIfUploaded(logger *log.Logger, rec *recordings.Recording) {
	err := r.withUploads(func(repo *repositories.UploadRepository) error {
		previous, err := repo.FindByRecording(rec.Name)
		if err != nil {
			return err
		}
		if len(previous) > 0 {
			logger.Warn("Recording was uploaded before",
				"name", previous[0].Name(),
				"at", previous[0].CreatedAt().Local().Format(time.DateTime),
			)
		}
		return nil
	})
	if err != nil {
		logger.Debug("Upload history unavailable", "error", err)
	}
}

// recordUpload stores the upload in the history. The upload already happened, so failures only warn.
func (r *Runner) recordUpload(logger *log.Logger, upload *models.Upload) {
	err := r.withUploads(func(repo *repositories.UploadRepository) error {
		return repo.Create(upload)
	})
	if err != nil {
		logger.Warn("Failed to record upload history", "error", err)
	}
}
