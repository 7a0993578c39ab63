// Package idea turns a raw ideas response from the generation service into
// ordered, individually selectable records.
//
// Each record carries a generated ID used for selection; the title is for
// display only, since two ideas may well end up with the same title.
package idea

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// UnnamedTitle is used when no title can be derived from a segment.
const UnnamedTitle = "Unnamed Idea"

// titleMarkup is stripped around a first-line title.
const titleMarkup = "#*_` \t"

// titlePattern matches a bolded "Idea N: <title>" heading anywhere in a segment.
var titlePattern = regexp.MustCompile(`(?i)\*\*\s*(idea\s+\d+\s*:[^*\n]*?)\s*\*\*`)

// Record is one parsed idea.
type Record struct {
	ID    string `json:"id"`
	Index int    `json:"index"` // 0-based position in the batch
	Title string `json:"title"`
	Body  string `json:"body"` // full segment text, sent to the script stage
}

// Kind classifies a parse degradation.
type Kind int

const (
	// Empty means the response had no usable segment at all.
	Empty Kind = iota
	// SingleSegment means a separator was expected but the whole response
	// came back as one segment.
	SingleSegment
	// TitleFallback means no bold "Idea N:" heading was found and the first
	// line was used as title.
	TitleFallback
	// Unnamed means the first line used as title holds only markup.
	Unnamed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case SingleSegment:
		return "single-segment"
	case TitleFallback:
		return "title-fallback"
	case Unnamed:
		return "unnamed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Degradation records a place where the response did not have the expected
// structure and a lower-fidelity interpretation was used.
type Degradation struct {
	Kind  Kind
	Index int // record index, or -1 for response-level degradations
}

// String returns a short description suitable for a user-facing warning.
func (d Degradation) String() string {
	switch d.Kind {
	case Empty:
		return "the response contained no ideas"
	case SingleSegment:
		return "the response was not split into separate ideas; showing it as one"
	case TitleFallback:
		return fmt.Sprintf("idea %d has no \"Idea N:\" heading; using its first line as title", d.Index+1)
	case Unnamed:
		return fmt.Sprintf("idea %d has no words in its title line", d.Index+1)
	default:
		return d.Kind.String()
	}
}

// Result is the outcome of parsing one response.
type Result struct {
	Ideas        []Record
	Degradations []Degradation
}

// Degraded reports whether any part of the response was parsed with a fallback.
func (r Result) Degraded() bool {
	return len(r.Degradations) > 0
}

// Warnings returns the degradations as display strings.
func (r Result) Warnings() []string {
	if len(r.Degradations) == 0 {
		return nil
	}
	out := make([]string, len(r.Degradations))
	for i, d := range r.Degradations {
		out[i] = d.String()
	}
	return out
}

// Parser splits responses with a fixed delimiter.
type Parser struct {
	delim Delimiter
	newID func() string
}

// Option configures a Parser.
type Option func(*Parser)

// WithIDFunc sets the record ID generator (for deterministic tests).
func WithIDFunc(fn func() string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewParser creates a Parser for the given delimiter convention.
func NewParser(delim Delimiter, opts ...Option) *Parser {
	p := &Parser{
		delim: delim,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse splits raw with delim using generated IDs.
func Parse(raw string, delim Delimiter) Result {
	return NewParser(delim).Parse(raw)
}

// Parse splits raw into records, dropping segments that are blank after trimming.
//
// With a separator delimiter, missing "Idea N:" headings are reported as
// TitleFallback. With Newline they are not: one idea per line never carries
// a heading.
func (p *Parser) Parse(raw string) Result {
	var res Result

	for _, seg := range p.delim.split(raw) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		idx := len(res.Ideas)
		title, matched := extractTitle(seg)
		switch {
		case !matched && strings.Trim(title, titleMarkup) == "":
			res.Degradations = append(res.Degradations, Degradation{Kind: Unnamed, Index: idx})
		case !matched && !p.delim.IsNewline():
			res.Degradations = append(res.Degradations, Degradation{Kind: TitleFallback, Index: idx})
		}

		res.Ideas = append(res.Ideas, Record{
			ID:    p.newID(),
			Index: idx,
			Title: title,
			Body:  seg,
		})
	}

	switch {
	case len(res.Ideas) == 0:
		res.Degradations = append(res.Degradations, Degradation{Kind: Empty, Index: -1})
	case len(res.Ideas) == 1 && !p.delim.IsNewline():
		res.Degradations = append(res.Degradations, Degradation{Kind: SingleSegment, Index: -1})
	}

	return res
}

// ExtractTitle derives the display title of a segment: the bold "Idea N: ..."
// heading if present, otherwise the first line with markdown emphasis removed
// (kept as written when it holds nothing else), otherwise UnnamedTitle.
func ExtractTitle(segment string) string {
	title, _ := extractTitle(segment)
	return title
}

// extractTitle also reports whether the bold heading pattern matched.
func extractTitle(segment string) (string, bool) {
	if m := titlePattern.FindStringSubmatch(segment); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t, true
		}
	}

	first, _, _ := strings.Cut(strings.TrimSpace(segment), "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnnamedTitle, false
	}
	// A line made only of markup is still a line; keep it as written.
	if stripped := strings.Trim(first, titleMarkup); stripped != "" {
		return stripped, false
	}
	return first, false
}
