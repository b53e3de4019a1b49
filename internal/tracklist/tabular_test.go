package tracklist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTabular(t *testing.T) {
	t.Run("joins fields and entries", func(t *testing.T) {
		got := FormatTabular(Tracklist{
			{Artist: "Daft Punk", Title: "One More Time", StartSeconds: 0},
			{Artist: "Stardust", Title: "Music Sounds Better With You", StartSeconds: 312},
		}, "")
		assert.Equal(t, "Daft Punk :: One More Time :: 0\nStardust :: Music Sounds Better With You :: 312", got)
	})

	t.Run("sanitizes separator", func(t *testing.T) {
		got := FormatTabular(Tracklist{{Artist: "A :: B", Title: "C :: D", StartSeconds: 5}}, DefaultSeparator)
		assert.Equal(t, "A B :: C D :: 5", got)
	})

	t.Run("custom separator", func(t *testing.T) {
		got := FormatTabular(Tracklist{{Artist: "A", Title: "B|C", StartSeconds: 1}}, "|")
		assert.Equal(t, "A|B C|1", got)
	})

	t.Run("empty tracklist", func(t *testing.T) {
		assert.Equal(t, "", FormatTabular(nil, ""))
	})
}

func TestParseTabular(t *testing.T) {
	t.Run("skips short and blank lines", func(t *testing.T) {
		got, err := ParseTabular("A :: B :: 10\n\nonly :: two\n   \nC :: D :: 20\n", "")
		require.NoError(t, err)
		assert.Equal(t, Tracklist{
			{Artist: "A", Title: "B", StartSeconds: 10},
			{Artist: "C", Title: "D", StartSeconds: 20},
		}, got)
	})

	t.Run("non-integer start", func(t *testing.T) {
		_, err := ParseTabular("A :: B :: 10\nC :: D :: soon\n", "")
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 2, fe.Line)
		assert.Equal(t, "soon", fe.Token)
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("extra fields are ignored", func(t *testing.T) {
		got, err := ParseTabular("A :: B :: 3 :: note", "")
		require.NoError(t, err)
		assert.Equal(t, Tracklist{{Artist: "A", Title: "B", StartSeconds: 3}}, got)
	})

	t.Run("windows line endings", func(t *testing.T) {
		got, err := ParseTabular("A :: B :: 3\r\nC :: D :: 4\r\n", "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty text", func(t *testing.T) {
		got, err := ParseTabular("", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTabularRoundTrip(t *testing.T) {
	cases := map[string]Tracklist{
		"simple": {
			{Artist: "DJ Test", Title: "Intro Mix", StartSeconds: 0},
			{Artist: "", Title: "Second Track", StartSeconds: 225},
		},
		"whitespace preserved": {
			{Artist: "  padded ", Title: " title  ", StartSeconds: 7},
		},
		"empty fields": {
			{Artist: "", Title: "", StartSeconds: 0},
			{Artist: "Only Artist", Title: "", StartSeconds: 3600},
		},
		"unicode": {
			{Artist: "Röyksopp", Title: "Eple – Remix", StartSeconds: 42},
		},
		"empty": {},
	}

	for name, tl := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTabular(FormatTabular(tl, ""), "")
			require.NoError(t, err)
			assert.Equal(t, tl, got)
		})
	}
}

func TestTabularSeparatorInFields(t *testing.T) {
	cases := map[string]struct {
		in   Entry
		want Entry
	}{
		"trailing fragment in title": {
			in:   Entry{Artist: "A", Title: "t ::", StartSeconds: 5},
			want: Entry{Artist: "A", Title: "t", StartSeconds: 5},
		},
		"trailing fragment in artist": {
			in:   Entry{Artist: "x ::", Title: "t", StartSeconds: 5},
			want: Entry{Artist: "x", Title: "t", StartSeconds: 5},
		},
		"repeated separator": {
			in:   Entry{Artist: "x :: :: y", Title: "t", StartSeconds: 5},
			want: Entry{Artist: "x y", Title: "t", StartSeconds: 5},
		},
		"leading fragment in title": {
			in:   Entry{Artist: "A", Title: ":: lead", StartSeconds: 1},
			want: Entry{Artist: "A", Title: "lead", StartSeconds: 1},
		},
		"separator only": {
			in:   Entry{Artist: " :: ", Title: " ::  :: ", StartSeconds: 2},
			want: Entry{Artist: " ", Title: "  ", StartSeconds: 2},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			text := FormatTabular(Tracklist{tc.in}, "")
			got, err := ParseTabular(text, "")
			require.NoError(t, err)
			assert.Equal(t, Tracklist{tc.want}, got)

			// formatting the parsed result must not change it again
			assert.Equal(t, text, FormatTabular(got, ""))
		})
	}

	t.Run("custom separator", func(t *testing.T) {
		tl := Tracklist{{Artist: "a|", Title: "b", StartSeconds: 9}}
		got, err := ParseTabular(FormatTabular(tl, "||"), "||")
		require.NoError(t, err)
		assert.Equal(t, Tracklist{{Artist: "a", Title: "b", StartSeconds: 9}}, got)
	})

	assert.Equal(t, "x y :: t :: 5", FormatTabular(Tracklist{{Artist: "x :: :: y", Title: "t", StartSeconds: 5}}, ""))
}

func TestTabularFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracklist.txt")
	tl := Tracklist{{Artist: "A", Title: "B", StartSeconds: 1}}

	require.NoError(t, WriteTabular(path, tl))
	got, err := ReadTabular(path)
	require.NoError(t, err)
	assert.Equal(t, tl, got)

	_, err = ReadTabular(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
