package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mixup/internal/shared"
)

const mixcloudURL = "https://www.mixcloud.com"

// Upload records a mix published from a local recording.
type Upload struct {
	id         string
	name       string
	recording  string
	audioPath  string
	key        string
	trackCount int
	tags       []string
	createdAt  time.Time
}

var _ Model = (*Upload)(nil)

// NewUpload creates an unsaved [Upload] stamped with the current time.
func NewUpload(name, recording, audioPath string, tags []string, trackCount int) *Upload {
	return &Upload{
		name:       name,
		recording:  recording,
		audioPath:  audioPath,
		tags:       tags,
		trackCount: trackCount,
		createdAt:  time.Now().UTC(),
	}
}

func (u *Upload) ID() string           { return u.id }
func (u *Upload) CreatedAt() time.Time { return u.createdAt }
func (u *Upload) Name() string         { return u.name }
func (u *Upload) Recording() string    { return u.recording }
func (u *Upload) AudioPath() string    { return u.audioPath }
func (u *Upload) TrackCount() int      { return u.trackCount }
func (u *Upload) Tags() []string       { return u.tags }

// Key is the cloudcast key returned by the upload, e.g. "/user/mix-name/".
func (u *Upload) Key() string { return u.key }

func (u *Upload) SetID(id string)          { u.id = id }
func (u *Upload) SetKey(key string)        { u.key = key }
func (u *Upload) SetCreatedAt(t time.Time) { u.createdAt = t }

// URL returns the public page of the cloudcast, or "" when the key is unknown.
func (u *Upload) URL() string {
	if u.key == "" {
		return ""
	}
	return mixcloudURL + u.key
}

func (u *Upload) Validate() error {
	switch {
	case strings.TrimSpace(u.name) == "":
		return fmt.Errorf("%w: upload name is required", shared.ErrInvalidInput)
	case u.recording == "":
		return fmt.Errorf("%w: upload recording is required", shared.ErrInvalidInput)
	case u.trackCount < 0:
		return fmt.Errorf("%w: negative track count", shared.ErrInvalidInput)
	}
	return nil
}
