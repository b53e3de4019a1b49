package tracklist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixxxCue = `REM GENRE "Electronic"
PERFORMER "Someone"
TITLE "Saturday Session"
FILE "2024-05-04_21h30.wav" WAVE
TRACK 01 AUDIO
  TITLE "Intro Mix"
  PERFORMER "DJ Test"
  INDEX 01 00:00:00
TRACK 02 AUDIO
  TITLE "Second Track"
  INDEX 01 03:45:00
`

func TestParseTime(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want int
	}{
		{name: "with frames", in: "03:45:00", want: 225},
		{name: "zero", in: "00:00:00", want: 0},
		{name: "frames ignored", in: "01:02:74", want: 62},
		{name: "minutes and seconds", in: "90:30", want: 5430},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"ab:cd", "12", "1:2:3:4", "01:xx:00", "-1:00", "+3:+4", "3:-4", "03: 45", ":45", "03:"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseTime(bad)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, bad, fe.Token)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestParseCue(t *testing.T) {
	t.Run("mixxx cue sheet", func(t *testing.T) {
		got, err := Collect(ParseCueString(mixxxCue))
		require.NoError(t, err)

		assert.Equal(t, Tracklist{
			{Artist: "DJ Test", Title: "Intro Mix", StartSeconds: 0},
			{Artist: "", Title: "Second Track", StartSeconds: 225},
		}, got)
	})

	t.Run("infers artists when finalizing entries", func(t *testing.T) {
		cue := "TRACK 01 AUDIO\n  TITLE \"Daft Punk - One More Time\"\n  INDEX 01 01:00:00\n"
		got, err := Collect(ParseCueString(cue))
		require.NoError(t, err)
		assert.Equal(t, Tracklist{{Artist: "Daft Punk", Title: "One More Time", StartSeconds: 60}}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := Collect(ParseCueString(""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("metadata without tracks", func(t *testing.T) {
		got, err := Collect(ParseCueString("PERFORMER \"x\"\nTITLE \"y\"\nINDEX 01 00:10:00\n"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("only the last INDEX field is used", func(t *testing.T) {
		got, err := Collect(ParseCueString("TRACK 01 AUDIO\nINDEX 00 00:01:00\nINDEX 01 00:02:00\n"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].StartSeconds)
	})

	t.Run("quotes stripped only when on both ends", func(t *testing.T) {
		got, err := Collect(ParseCueString("TRACK 01 AUDIO\nTITLE \"Half quoted\nPERFORMER \"\"Nested\"\"\n"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, `"Half quoted`, got[0].Title)
		assert.Equal(t, `"Nested"`, got[0].Artist)
	})

	t.Run("malformed index", func(t *testing.T) {
		cue := "TRACK 01 AUDIO\nTITLE \"A\"\nINDEX 01 00:00:00\nTRACK 02 AUDIO\nINDEX 01 ab:cd\n"
		var entries []Entry
		var err error
		for e, e2 := range ParseCueString(cue) {
			if e2 != nil {
				err = e2
				break
			}
			entries = append(entries, e)
		}

		assert.Len(t, entries, 1, "entries before the error are still yielded")
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 5, fe.Line)
		assert.Equal(t, "ab:cd", fe.Token)
	})

	t.Run("long lines", func(t *testing.T) {
		title := strings.Repeat("x", 100*1024)
		cue := "TRACK 01 AUDIO\nTITLE \"" + title + "\"\nINDEX 01 00:07:00\n"
		got, err := Collect(ParseCue(strings.NewReader(cue)))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, title, got[0].Title)
		assert.Equal(t, 7, got[0].StartSeconds)
	})

	t.Run("restartable", func(t *testing.T) {
		seq := ParseCueString(mixxxCue)
		first, err := Collect(seq)
		require.NoError(t, err)
		second, err := Collect(seq)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range ParseCue(strings.NewReader(mixxxCue)) {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})
}

func TestReadCue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mix.cue")
	require.NoError(t, os.WriteFile(path, []byte(mixxxCue), 0644))

	got, err := ReadCue(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ReadCue(filepath.Join(dir, "missing.cue"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
