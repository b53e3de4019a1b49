package tracklist

import (
	"regexp"
	"strings"
	"time"
)

// artistDelimiters are tried in order; the first one present in the title wins.
var artistDelimiters = []*regexp.Regexp{
	regexp.MustCompile(`[-–]`),
	regexp.MustCompile(`:`),
	regexp.MustCompile(`\bby\b`),
}

// CompleteEntry guesses the artist of an entry whose artist is empty by splitting its title on a
// dash, a colon or the word "by", in that order of preference. Entries that already have an
// artist, or whose title contains none of the delimiters, are returned unchanged.
func CompleteEntry(e Entry) Entry {
	if e.Artist != "" {
		return e
	}

	for _, re := range artistDelimiters {
		loc := re.FindStringIndex(e.Title)
		if loc == nil {
			continue
		}
		e.Artist = strings.TrimSpace(e.Title[:loc[0]])
		e.Title = strings.TrimSpace(e.Title[loc[1]:])
		return e
	}
	return e
}

// Complete applies [CompleteEntry] to every entry of t.
func Complete(t Tracklist) Tracklist {
	out := make(Tracklist, 0, len(t))
	for _, e := range t {
		out = append(out, CompleteEntry(e))
	}
	return out
}

// Trim keeps the entries that start strictly before d. Start offsets are not changed.
func Trim(t Tracklist, d time.Duration) Tracklist {
	out := Tracklist{}
	for _, e := range t {
		if e.Start() < d {
			out = append(out, e)
		}
	}
	return out
}
