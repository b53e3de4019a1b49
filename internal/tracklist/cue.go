package tracklist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ParseTime converts a cue time (mm:ss or mm:ss:ff) to whole seconds. Frames are ignored.
func ParseTime(raw string) (int, error) {
	segments := strings.Split(strings.TrimSpace(raw), ":")
	if len(segments) < 2 || len(segments) > 3 {
		return 0, &FormatError{Token: raw, Err: errors.New("expected mm:ss or mm:ss:ff")}
	}

	values := make([]int, len(segments))
	for i, seg := range segments {
		if seg == "" || seg[0] < '0' || seg[0] > '9' {
			return 0, &FormatError{Token: raw, Err: fmt.Errorf("segment %q is not an unsigned number", seg)}
		}
		n, err := strconv.Atoi(seg)
		if err != nil {
			return 0, &FormatError{Token: raw, Err: err}
		}
		values[i] = n
	}

	return values[0]*60 + values[1], nil
}

// unquote strips one layer of double quotes when present on both ends.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// splitCommand returns the first whitespace-delimited token of line and the trimmed remainder.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}

// maxCueLine bounds a single cue sheet line. bufio.Scanner stops at 64 KiB by default.
const maxCueLine = 4 << 20

// ParseCue lazily yields the entries of the cue sheet read from r.
//
// Iteration stops after the first error. The sequence reads r as it goes, so it can only be
// ranged over once; use [ParseCueString] for a restartable sequence.
func ParseCue(r io.Reader) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxCueLine)
		var current *Entry
		lineNo := 0

		for scanner.Scan() {
			lineNo++
			cmd, rest := splitCommand(scanner.Text())

			if cmd == "TRACK" {
				if current != nil && !yield(CompleteEntry(*current), nil) {
					return
				}
				current = &Entry{}
				continue
			}

			if current == nil {
				continue
			}

			switch cmd {
			case "TITLE":
				current.Title = unquote(rest)
			case "PERFORMER":
				current.Artist = unquote(rest)
			case "INDEX":
				fields := strings.Fields(rest)
				if len(fields) == 0 {
					yield(Entry{}, &FormatError{Line: lineNo, Err: errors.New("INDEX without time")})
					return
				}
				seconds, err := ParseTime(fields[len(fields)-1])
				if err != nil {
					var fe *FormatError
					if errors.As(err, &fe) {
						fe.Line = lineNo
					}
					yield(Entry{}, err)
					return
				}
				current.StartSeconds = seconds
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("failed to read cue sheet: %w", err))
			return
		}

		if current != nil {
			yield(CompleteEntry(*current), nil)
		}
	}
}

// ParseCueString is [ParseCue] over a string. The returned sequence can be ranged over repeatedly.
func ParseCueString(s string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for e, err := range ParseCue(strings.NewReader(s)) {
			if !yield(e, err) {
				return
			}
		}
	}
}

// Collect drains seq into a [Tracklist], returning the first error.
func Collect(seq iter.Seq2[Entry, error]) (Tracklist, error) {
	t := Tracklist{}
	for e, err := range seq {
		if err != nil {
			return nil, err
		}
		t = append(t, e)
	}
	return t, nil
}

// ReadCue parses the cue sheet at path.
func ReadCue(path string) (Tracklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cue sheet: %w", err)
	}
	defer f.Close()

	t, err := Collect(ParseCue(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
