// Package ui implements the interactive terminal prompts and styled output using bubbletea's Elm architecture.
//
// The upload flow asks two kinds of questions:
//  1. [Prompt] : free text with an optional default, e.g. the mix name
//  2. [Confirm] : a y/n gate before publishing
//
// Both are small bubbletea models driven by the standard Init/Update/View pattern.
// [Terminal] runs them as programs on the given input and output and implements [Prompter],
// which is what the commands depend on.
//
// [RenderTracklist] prints a tracklist with lipgloss styling for review before upload.
package ui
