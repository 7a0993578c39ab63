// Package format renders durations and script lengths for terminal and log output.
package format

import (
	"fmt"
	"strings"
	"time"
)

// WordsPerMinute is the speaking pace used to estimate how long a script runs
// when read aloud.
const WordsPerMinute = 150

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// DurationHuman formats a duration for human display.
// Examples: "2h", "30m", "1h30m", "45s"
func DurationHuman(d time.Duration) string {
	if d >= time.Hour {
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes > 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return fmt.Sprintf("%ds", d/time.Second)
}

// Words counts whitespace-separated words.
func Words(text string) int {
	return len(strings.Fields(text))
}

// SpokenDuration estimates the read-aloud length of text at WordsPerMinute,
// rounded to the second.
func SpokenDuration(text string) time.Duration {
	d := time.Duration(Words(text)) * time.Minute / WordsPerMinute
	return d.Round(time.Second)
}

// ScriptSummary describes a script as "N words, ~MM:SS spoken".
func ScriptSummary(text string) string {
	n := Words(text)
	unit := "words"
	if n == 1 {
		unit = "word"
	}
	return fmt.Sprintf("%d %s, ~%s spoken", n, unit, Duration(SpokenDuration(text)))
}
