// Package tracklist models the tracklist of a recorded mix and converts it between formats.
//
// # Cue Sheets
//
// [ParseCue] reads the cue sheet Mixxx writes next to a recording. Only TRACK, TITLE, PERFORMER
// and INDEX lines are consulted; everything before the first TRACK is ignored. Each finished entry
// runs through [CompleteEntry] before it is yielded.
//
// # Tabular Format
//
// [FormatTabular] and [ParseTabular] round-trip a [Tracklist] through a line-per-entry text format
// meant for editing in $EDITOR:
//
//	Daft Punk :: One More Time :: 0
//	Stardust :: Music Sounds Better With You :: 312
//
// Lines with fewer than three fields are dropped so that blank or half-deleted lines don't abort an edit.
//
// # Transforms
//
// [Complete] guesses missing artists from titles and [Trim] cuts a tracklist down to a mix's trimmed length.
// Both return new tracklists.
package tracklist
