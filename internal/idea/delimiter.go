package idea

import (
	"strings"
)

// Delimiter describes how a raw ideas response is cut into segments.
// The zero value is Newline: every line is its own segment.
type Delimiter struct {
	token string
}

// Newline splits on every line break (one idea per line).
var Newline = Delimiter{}

// Separator splits on lines consisting only of token (surrounding whitespace ignored).
// An empty token is equivalent to Newline.
func Separator(token string) Delimiter {
	return Delimiter{token: strings.TrimSpace(token)}
}

// IsNewline reports whether d splits on every line break.
func (d Delimiter) IsNewline() bool {
	return d.token == ""
}

// Token returns the separator token, or "" for Newline.
func (d Delimiter) Token() string {
	return d.token
}

// String returns a human-readable name for logs and errors.
func (d Delimiter) String() string {
	if d.IsNewline() {
		return "newline"
	}
	return "separator " + d.token
}

// split cuts raw into segments. Segments are returned untrimmed; CRLF line
// endings are normalized first.
func (d Delimiter) split(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if d.IsNewline() {
		return strings.Split(raw, "\n")
	}

	var (
		segments []string
		current  strings.Builder
	)
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == d.token {
			segments = append(segments, current.String())
			current.Reset()
			continue
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	return append(segments, current.String())
}
