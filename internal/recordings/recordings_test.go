package recordings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mixup/internal/shared"
	tu "github.com/desertthunder/mixup/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRecordings(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		tu.MustWriteFile(t, dir, f, "data")
	}
	return dir
}

func TestList(t *testing.T) {
	t.Run("Complete Pairs Newest First", func(t *testing.T) {
		dir := setupRecordings(t,
			"2024-01-10_20h00.wav", "2024-01-10_20h00.cue",
			"2024-03-02_21h15.wav", "2024-03-02_21h15.cue",
			"2024-04-01_18h00.wav",
			"2024-05-01_18h00.cue",
			"notes.txt",
		)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "old.wav"), 0755))

		recs, err := List(dir)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		assert.Equal(t, "2024-03-02_21h15", recs[0].Name)
		assert.Equal(t, filepath.Join(dir, "2024-03-02_21h15.wav"), recs[0].Audio)
		assert.Equal(t, filepath.Join(dir, "2024-03-02_21h15.cue"), recs[0].Cue)
		assert.Equal(t, int64(4), recs[0].Size)
		assert.Equal(t, "2024-01-10_20h00", recs[1].Name)
	})

	t.Run("Empty Directory", func(t *testing.T) {
		recs, err := List(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("Missing Directory", func(t *testing.T) {
		_, err := List(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, shared.ErrRecordingNotFound)
	})
}

func TestLatest(t *testing.T) {
	t.Run("Newest Pair", func(t *testing.T) {
		dir := setupRecordings(t,
			"2024-01-10_20h00.wav", "2024-01-10_20h00.cue",
			"2024-03-02_21h15.wav", "2024-03-02_21h15.cue",
			"2024-06-01_18h00.wav",
		)

		rec, err := Latest(dir)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-02_21h15", rec.Name)
	})

	t.Run("No Pairs", func(t *testing.T) {
		dir := setupRecordings(t, "2024-06-01_18h00.wav")
		_, err := Latest(dir)
		assert.ErrorIs(t, err, shared.ErrRecordingNotFound)
	})
}

func TestNamed(t *testing.T) {
	dir := setupRecordings(t,
		"2024-01-10_20h00.wav", "2024-01-10_20h00.cue",
		"half.wav",
	)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "Bare Name", input: "2024-01-10_20h00"},
		{name: "With Extension", input: "2024-01-10_20h00.wav"},
		{name: "Cue Extension", input: "2024-01-10_20h00.cue"},
		{name: "Missing Cue", input: "half", wantErr: shared.ErrRecordingNotFound},
		{name: "Missing Both", input: "ghost", wantErr: shared.ErrRecordingNotFound},
		{name: "Empty", input: "", wantErr: shared.ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Named(dir, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2024-01-10_20h00", rec.Name)
			tu.AssertFileExists(t, rec.Audio)
			tu.AssertFileExists(t, rec.Cue)
		})
	}
}

func TestFind(t *testing.T) {
	dir := setupRecordings(t,
		"a.wav", "a.cue",
		"b.wav", "b.cue",
	)

	rec, err := Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Name)

	rec, err = Find(dir, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Name)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		audio   string
		variant string
		want    string
	}{
		{name: "Simple", audio: "/rec/2024-01-10_20h00.wav", want: "/out/transcoded-2024-01-10_20h00.mp3"},
		{name: "Dotted Name", audio: "/rec/set.part1.wav", want: "/out/transcoded-set.mp3"},
		{name: "With Variant", audio: "/rec/set.wav", variant: "trim5m0s-in2s", want: "/out/transcoded-set-trim5m0s-in2s.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath("/out", &Recording{Audio: tt.audio}, tt.variant))
		})
	}
}
