package format_test

// Notes:
// - Negative durations are intentionally not tested: these functions are
//   designed for real elapsed times which are always positive.
// - Spoken estimates are checked against WordsPerMinute rather than literals
//   where the pace matters.

import (
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-shortscript/internal/format"
)

// ---------------------------------------------------------------------------
// TestDuration - Formats duration as HH:MM:SS or MM:SS
// ---------------------------------------------------------------------------

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		// Zero value
		{name: "zero", input: 0, want: "00:00"},

		// Under a minute (MM:SS format)
		{name: "one second", input: time.Second, want: "00:01"},
		{name: "boundary: 59 seconds", input: 59 * time.Second, want: "00:59"},

		// Under an hour (MM:SS format)
		{name: "boundary: exactly 1 minute", input: time.Minute, want: "01:00"},
		{name: "typical: 5 minutes", input: 5 * time.Minute, want: "05:00"},
		{name: "mixed minutes and seconds", input: 5*time.Minute + 30*time.Second, want: "05:30"},
		{name: "boundary: 59 minutes 59 seconds", input: 59*time.Minute + 59*time.Second, want: "59:59"},

		// One hour or more (HH:MM:SS format)
		{name: "boundary: exactly 1 hour", input: time.Hour, want: "01:00:00"},
		{name: "1 hour 1 second", input: time.Hour + time.Second, want: "01:00:01"},
		{name: "typical: 1 hour 30 minutes", input: time.Hour + 30*time.Minute, want: "01:30:00"},
		{name: "full: 2 hours 15 minutes 45 seconds", input: 2*time.Hour + 15*time.Minute + 45*time.Second, want: "02:15:45"},

		// Realistic large value
		{name: "large realistic: 24 hours", input: 24 * time.Hour, want: "24:00:00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := format.Duration(tt.input)
			if got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDurationHuman - Formats duration for human display (2h, 30m, 1h30m, 45s)
// ---------------------------------------------------------------------------

func TestDurationHuman(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		// Seconds only (< 1 minute)
		{name: "zero", input: 0, want: "0s"},
		{name: "one second", input: time.Second, want: "1s"},
		{name: "boundary: 59 seconds", input: 59 * time.Second, want: "59s"},

		// Minutes only (>= 1 minute, < 1 hour)
		{name: "boundary: exactly 1 minute", input: time.Minute, want: "1m"},
		{name: "typical: 30 minutes", input: 30 * time.Minute, want: "30m"},
		{name: "boundary: 59 minutes", input: 59 * time.Minute, want: "59m"},

		// Hours only (>= 1 hour, no remaining minutes)
		{name: "boundary: exactly 1 hour", input: time.Hour, want: "1h"},
		{name: "typical: 2 hours", input: 2 * time.Hour, want: "2h"},

		// Hours and minutes (>= 1 hour, with remaining minutes)
		{name: "1 hour 1 minute", input: time.Hour + time.Minute, want: "1h1m"},
		{name: "typical: 1 hour 30 minutes", input: time.Hour + 30*time.Minute, want: "1h30m"},
		{name: "2 hours 45 minutes", input: 2*time.Hour + 45*time.Minute, want: "2h45m"},

		// Realistic large value
		{name: "large realistic: 24 hours", input: 24 * time.Hour, want: "24h"},

		// Seconds are truncated when >= 1 minute (documented behavior)
		{name: "minutes truncate seconds", input: time.Minute + 30*time.Second, want: "1m"},
		{name: "hours truncate seconds", input: time.Hour + 30*time.Second, want: "1h"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := format.DurationHuman(tt.input)
			if got != tt.want {
				t.Errorf("DurationHuman(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWords / TestSpokenDuration - Script length estimates
// ---------------------------------------------------------------------------

func TestWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "whitespace only", input: " \n\t ", want: 0},
		{name: "single word", input: "cats", want: 1},
		{name: "mixed separators", input: "Hook:\n  cats sleep\t16 hours", want: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Words(tt.input); got != tt.want {
				t.Errorf("Words(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpokenDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words int
		want  time.Duration
	}{
		{name: "zero", words: 0, want: 0},
		{name: "one minute of speech", words: format.WordsPerMinute, want: time.Minute},
		{name: "half a minute", words: format.WordsPerMinute / 2, want: 30 * time.Second},
		{name: "rounds to the second", words: 1, want: 0},
		{name: "short-form length", words: 130, want: 52 * time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := format.SpokenDuration(text); got != tt.want {
				t.Errorf("SpokenDuration(%d words) = %v, want %v", tt.words, got, tt.want)
			}
		})
	}
}

func TestScriptSummary(t *testing.T) {
	t.Parallel()

	if got, want := format.ScriptSummary("hello"), "1 word, ~00:00 spoken"; got != want {
		t.Errorf("ScriptSummary() = %q, want %q", got, want)
	}
	text := strings.TrimSpace(strings.Repeat("word ", 300))
	if got, want := format.ScriptSummary(text), "300 words, ~02:00 spoken"; got != want {
		t.Errorf("ScriptSummary() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// Fuzz Tests - Verify functions don't panic on arbitrary inputs
// ---------------------------------------------------------------------------

// FuzzDuration verifies Duration never panics and always returns non-empty.
func FuzzDuration(f *testing.F) {
	// Seed corpus with representative values
	f.Add(int64(0))
	f.Add(int64(time.Second))
	f.Add(int64(time.Minute))
	f.Add(int64(time.Hour))
	f.Add(int64(24 * time.Hour))

	f.Fuzz(func(t *testing.T, ns int64) {
		d := time.Duration(ns)
		if d < 0 {
			t.Skip("negative durations are undefined behavior")
		}
		got := format.Duration(d)
		if got == "" {
			t.Errorf("Duration(%v) returned empty string", d)
		}
	})
}

// FuzzDurationHuman verifies DurationHuman never panics and always returns non-empty.
func FuzzDurationHuman(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(time.Second))
	f.Add(int64(time.Minute))
	f.Add(int64(time.Hour))
	f.Add(int64(24 * time.Hour))

	f.Fuzz(func(t *testing.T, ns int64) {
		d := time.Duration(ns)
		if d < 0 {
			t.Skip("negative durations are undefined behavior")
		}
		got := format.DurationHuman(d)
		if got == "" {
			t.Errorf("DurationHuman(%v) returned empty string", d)
		}
	})
}

// FuzzSpokenDuration verifies SpokenDuration never panics or goes negative.
func FuzzSpokenDuration(f *testing.F) {
	f.Add("")
	f.Add("one two three")
	f.Add("**Idea 1: Cats**\nHook line")

	f.Fuzz(func(t *testing.T, text string) {
		if got := format.SpokenDuration(text); got < 0 {
			t.Errorf("SpokenDuration(%q) = %v, want >= 0", text, got)
		}
	})
}
