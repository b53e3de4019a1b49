package main

import (
	"context"
	"time"

	"github.com/desertthunder/mixup/internal/recordings"
	"github.com/desertthunder/mixup/internal/repositories"
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/ui"
	"github.com/urfave/cli/v3"
)

type recordingView struct {
	Name     string    `json:"name"`
	Audio    string    `json:"audio"`
	Cue      string    `json:"cue"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Uploaded bool      `json:"uploaded"`
}

// uploadedRecordings returns the names of recordings found in the upload history.
func (r *Runner) uploadedRecordings() map[string]bool {
	seen := map[string]bool{}
	err := r.withUploads(func(repo *repositories.UploadRepository) error {
		uploads, err := repo.List(nil)
		if err != nil {
			return err
		}
		for _, u := range uploads {
			seen[u.Recording()] = true
		}
		return nil
	})
	if err != nil {
		r.logger.Debug("Upload history unavailable", "error", err)
	}
	return seen
}

// RecordingsList lists complete wav and cue pairs, marking the ones already uploaded.
func (r *Runner) RecordingsList(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("recordings-dir")
	if dir == "" {
		dir = r.config.Paths.RecordingsDir
	}

	recs, err := recordings.List(shared.ExpandHome(dir))
	if err != nil {
		return err
	}

	uploaded := r.uploadedRecordings()
	views := make([]recordingView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, recordingView{
			Name:     rec.Name,
			Audio:    rec.Audio,
			Cue:      rec.Cue,
			Size:     rec.Size,
			Modified: rec.ModTime,
			Uploaded: uploaded[rec.Name],
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(views) == 0 {
		return r.writePlain("No recordings found in %s\n", dir)
	}

	for _, v := range views {
		line := v.Name + "  " + ui.Muted(v.Modified.Local().Format(time.DateTime))
		if v.Uploaded {
			line += "  " + ui.Success("uploaded")
		}
		r.writePlain("%s\n", line)
	}
	return nil
}
