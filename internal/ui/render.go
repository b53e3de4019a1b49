package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/mixup/internal/tracklist"
)

// RenderTracklist formats t as a numbered list with aligned start times.
func RenderTracklist(t tracklist.Tracklist) string {
	if len(t) == 0 {
		return styles.help.Render("(empty tracklist)")
	}

	stamps := make([]string, len(t))
	width := 0
	for i, e := range t {
		stamps[i] = tracklist.FormatTimestamp(e.StartSeconds)
		width = max(width, len(stamps[i]))
	}

	numWidth := len(strconv.Itoa(len(t)))
	stamp := styles.accent.Width(width).Align(lipgloss.Right)
	artist := lipgloss.NewStyle().Bold(true)

	lines := make([]string, 0, len(t))
	for i, e := range t {
		num := styles.help.Render(fmt.Sprintf("%*d.", numWidth, i+1))

		track := e.Title
		if e.Artist != "" {
			track = artist.Render(e.Artist) + " - " + e.Title
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", num, stamp.Render(stamps[i]), track))
	}
	return strings.Join(lines, "\n")
}
