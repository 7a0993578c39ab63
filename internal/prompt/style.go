package prompt

import (
	"fmt"

	"github.com/alnah/go-shortscript/internal/idea"
)

// Style name constants.
const (
	// StyleLines asks for one idea per line; the response is split on every newline.
	StyleLines = "lines"
	// StyleSections asks for bold "Idea N:" headings separated by a line of ---.
	StyleSections = "sections"
)

// sectionSeparator is the line the sections style asks the service to emit between ideas.
const sectionSeparator = "---"

// Style is a validated delimiter convention shared by the ideas prompt and
// the idea parser. Keeping both on one value means the parser always expects
// what the prompt requested.
type Style struct {
	name string
}

// Pre-parsed styles.
var (
	Lines    = Style{name: StyleLines}
	Sections = Style{name: StyleSections}
)

// ParseStyle validates a style name. Empty selects the default (sections).
func ParseStyle(s string) (Style, error) {
	switch s {
	case "":
		return DefaultStyle, nil
	case StyleLines:
		return Lines, nil
	case StyleSections:
		return Sections, nil
	}
	return Style{}, fmt.Errorf("unknown prompt style %q (use %q or %q): %w", s, StyleLines, StyleSections, ErrUnknownStyle)
}

// DefaultStyle is used when no style is configured.
var DefaultStyle = Sections

// String returns the style name.
func (s Style) String() string {
	return s.name
}

// IsZero returns true if no style is set.
func (s Style) IsZero() bool {
	return s.name == ""
}

// OrDefault returns s, or DefaultStyle if s is zero.
func (s Style) OrDefault() Style {
	if s.IsZero() {
		return DefaultStyle
	}
	return s
}

// Delimiter returns how ideas responses produced with this style are split.
func (s Style) Delimiter() idea.Delimiter {
	if s.OrDefault() == Lines {
		return idea.Newline
	}
	return idea.Separator(sectionSeparator)
}
