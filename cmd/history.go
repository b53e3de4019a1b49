package main

import (
	"context"
	"strings"
	"time"

	"github.com/desertthunder/mixup/internal/models"
	"github.com/desertthunder/mixup/internal/repositories"
	"github.com/urfave/cli/v3"
)

type uploadView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Recording  string    `json:"recording"`
	AudioPath  string    `json:"audio_path"`
	Tags       []string  `json:"tags"`
	TrackCount int       `json:"track_count"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func newUploadView(u *models.Upload) uploadView {
	return uploadView{
		ID:         u.ID(),
		Name:       u.Name(),
		Recording:  u.Recording(),
		AudioPath:  u.AudioPath(),
		Tags:       u.Tags(),
		TrackCount: u.TrackCount(),
		URL:        u.URL(),
		UploadedAt: u.CreatedAt(),
	}
}

// History prints past uploads, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if rec := cmd.String("recording"); rec != "" {
		criteria["recording"] = rec
	}

	var uploads []*models.Upload
	err := r.withUploads(func(repo *repositories.UploadRepository) error {
		var err error
		uploads, err = repo.List(criteria)
		return err
	})
	if err != nil {
		return err
	}

	views := make([]uploadView, 0, len(uploads))
	for _, u := range uploads {
		views = append(views, newUploadView(u))
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(views) == 0 {
		return r.writePlain("No uploads yet\n")
	}

	for _, v := range views {
		r.writePlain("%s  %s  (%s, %d tracks)\n", v.UploadedAt.Local().Format(time.DateTime), v.Name, v.Recording, v.TrackCount)
		if len(v.Tags) > 0 {
			r.writePlain("    tags: %s\n", strings.Join(v.Tags, ", "))
		}
		if v.URL != "" {
			r.writePlain("    %s\n", v.URL)
		}
	}
	return nil
}
