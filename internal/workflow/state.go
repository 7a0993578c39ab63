package workflow

import (
	"fmt"
	"time"

	"github.com/alnah/go-shortscript/internal/idea"
)

// Phase is the position of a State in the ideas → script → revise flow.
type Phase int

// Phases in workflow order. Revisions stay in PhaseScriptReady.
const (
	PhaseEmpty Phase = iota
	PhaseIdeasReady
	PhaseScriptReady
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseIdeasReady:
		return "ideas_ready"
	case PhaseScriptReady:
		return "script_ready"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is one user's workflow. It is a plain value: controller operations
// take a State and return the next one, and never keep a reference to it.
// The zero value is an empty workflow.
type State struct {
	Transcript string        `json:"transcript"`
	Ideas      []idea.Record `json:"ideas"`
	Chosen     *idea.Record  `json:"chosen,omitempty"`
	Script     string        `json:"script"`

	// Busy is set while an action for this state is in flight.
	Busy bool `json:"busy"`

	// Warnings describe how the last ideas response deviated from the
	// requested format.
	Warnings []string `json:"warnings,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Phase derives the current phase from the fields that are set.
func (s State) Phase() Phase {
	switch {
	case s.Script != "":
		return PhaseScriptReady
	case len(s.Ideas) > 0:
		return PhaseIdeasReady
	default:
		return PhaseEmpty
	}
}

// Idea returns the record with the given ID.
func (s State) Idea(id string) (idea.Record, bool) {
	for _, r := range s.Ideas {
		if r.ID == id {
			return r, true
		}
	}
	return idea.Record{}, false
}

// HasScript reports whether a script draft exists.
func (s State) HasScript() bool {
	return s.Script != ""
}

// Clone returns a deep copy so the result shares no slices or pointers with s.
func (s State) Clone() State {
	out := s
	if s.Ideas != nil {
		out.Ideas = make([]idea.Record, len(s.Ideas))
		copy(out.Ideas, s.Ideas)
	}
	if s.Warnings != nil {
		out.Warnings = make([]string, len(s.Warnings))
		copy(out.Warnings, s.Warnings)
	}
	if s.Chosen != nil {
		c := *s.Chosen
		out.Chosen = &c
	}
	return out
}
