package tracklist

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultSeparator joins the fields of a tabular line.
const DefaultSeparator = " :: "

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func sanitize(s, sep string) string {
	s = lineBreaks.Replace(s)

	repl := " "
	if strings.Contains(repl, sep) {
		repl = ""
	}
	// replacing can join two halves into a new sep, so repeat until none is left
	for strings.Contains(s, sep) {
		s = strings.ReplaceAll(s, sep, repl)
	}

	// a prefix or suffix of sep at either edge would combine with the neighbouring separator
	for s != "" {
		if i := strings.Index(s+sep, sep); i < len(s) {
			s = s[:i]
			continue
		}
		if i := strings.LastIndex(sep+s, sep); i > 0 {
			s = s[i:]
			continue
		}
		break
	}
	return s
}

// FormatTabular renders t one entry per line as artist, title and start seconds joined by sep.
//
// Occurrences of sep (and line breaks) inside artist or title are replaced with a single space,
// and a partial sep at the start or end of a field is dropped, so that [ParseTabular] always
// finds exactly three fields. An empty sep means [DefaultSeparator].
func FormatTabular(t Tracklist, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}

	lines := make([]string, 0, len(t))
	for _, e := range t {
		lines = append(lines, strings.Join([]string{
			sanitize(e.Artist, sep),
			sanitize(e.Title, sep),
			strconv.Itoa(e.StartSeconds),
		}, sep))
	}
	return strings.Join(lines, "\n")
}

// ParseTabular parses text written by [FormatTabular] (and possibly edited by hand).
//
// Lines with fewer than three fields are skipped. A start field that isn't a base-10 integer is a [FormatError].
func ParseTabular(text, sep string) (Tracklist, error) {
	if sep == "" {
		sep = DefaultSeparator
	}

	t := Tracklist{}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			continue
		}

		raw := strings.TrimSpace(fields[2])
		start, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &FormatError{Line: i + 1, Token: raw, Err: err}
		}

		t = append(t, Entry{Artist: fields[0], Title: fields[1], StartSeconds: start})
	}
	return t, nil
}

// WriteTabular writes t to path in the tabular format.
func WriteTabular(path string, t Tracklist) error {
	if err := os.WriteFile(path, []byte(FormatTabular(t, DefaultSeparator)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write tracklist: %w", err)
	}
	return nil
}

// ReadTabular parses the tabular tracklist at path.
func ReadTabular(path string) (Tracklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracklist: %w", err)
	}
	return ParseTabular(string(data), DefaultSeparator)
}
