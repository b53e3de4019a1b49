package tracklist

import (
	"errors"
	"fmt"
	"time"
)

// ErrFormat is matched by every [FormatError].
var ErrFormat = errors.New("malformed tracklist")

// Entry is one track within a mix.
type Entry struct {
	Artist       string `json:"artist"`
	Title        string `json:"title"`
	StartSeconds int    `json:"start_seconds"`
}

// Start returns the entry's offset from the start of the mix.
func (e Entry) Start() time.Duration {
	return time.Duration(e.StartSeconds) * time.Second
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s - %s", FormatTimestamp(e.StartSeconds), e.Artist, e.Title)
}

// Tracklist is the ordered list of entries of a mix, in playback order.
type Tracklist []Entry

// FormatError reports a time or offset that could not be parsed.
type FormatError struct {
	Line  int // 1-based, 0 when unknown
	Token string
	Err   error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid time %q", e.Token)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// FormatTimestamp renders seconds as m:ss, or h:mm:ss from one hour on.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
