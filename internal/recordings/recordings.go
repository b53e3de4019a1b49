// Package recordings locates Mixxx recordings: a raw .wav file paired with the .cue sheet Mixxx writes next to it.
package recordings

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/mixup/internal/shared"
)

const (
	audioExt = ".wav"
	cueExt   = ".cue"
)

// Recording is a complete audio + cue sheet pair.
type Recording struct {
	Name    string
	Audio   string
	Cue     string
	Size    int64
	ModTime time.Time
}

// Stem returns the name up to the first dot, which keys the transcoded output.
func (r Recording) Stem() string {
	stem, _, _ := strings.Cut(filepath.Base(r.Audio), ".")
	return stem
}

// List returns every complete pair in dir, newest first.
// Mixxx names recordings by timestamp, so names sort chronologically.
func List(dir string) ([]Recording, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s does not exist", shared.ErrRecordingNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read recordings directory: %w", err)
	}

	cues := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), cueExt) {
			cues[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = true
		}
	}

	var recs []Recording
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), audioExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !cues[name] {
			continue
		}

		rec := Recording{
			Name:  name,
			Audio: filepath.Join(dir, e.Name()),
			Cue:   filepath.Join(dir, name+cueExt),
		}
		if info, err := e.Info(); err == nil {
			rec.Size = info.Size()
			rec.ModTime = info.ModTime()
		}
		recs = append(recs, rec)
	}

	slices.SortFunc(recs, func(a, b Recording) int { return strings.Compare(b.Name, a.Name) })
	return recs, nil
}

// Latest returns the newest complete pair in dir.
func Latest(dir string) (*Recording, error) {
	recs, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no recording in %s", shared.ErrRecordingNotFound, dir)
	}
	return &recs[0], nil
}

// Named returns the pair called name in dir. A trailing .wav or .cue on name is ignored.
func Named(dir, name string) (*Recording, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: recording name", shared.ErrMissingArgument)
	}
	if ext := filepath.Ext(name); strings.EqualFold(ext, audioExt) || strings.EqualFold(ext, cueExt) {
		name = strings.TrimSuffix(name, ext)
	}

	rec := Recording{
		Name:  name,
		Audio: filepath.Join(dir, name+audioExt),
		Cue:   filepath.Join(dir, name+cueExt),
	}

	info, err := os.Stat(rec.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: %s does not exist", shared.ErrRecordingNotFound, rec.Audio)
	}
	if _, err := os.Stat(rec.Cue); err != nil {
		return nil, fmt.Errorf("%w: %s does not exist", shared.ErrRecordingNotFound, rec.Cue)
	}

	rec.Size = info.Size()
	rec.ModTime = info.ModTime()
	return &rec, nil
}

// Find returns the named recording, or the latest when name is empty.
func Find(dir, name string) (*Recording, error) {
	if name == "" {
		return Latest(dir)
	}
	return Named(dir, name)
}

// OutputPath returns where the transcoded mp3 for rec goes. The name is deterministic so reruns
// reuse it, and a non-empty variant (the encoding settings) keeps differently encoded copies apart.
func OutputPath(outDir string, rec *Recording, variant string) string {
	name := "transcoded-" + rec.Stem()
	if variant != "" {
		name += "-" + variant
	}
	return filepath.Join(outDir, name+".mp3")
}
