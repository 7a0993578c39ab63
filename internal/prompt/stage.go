package prompt

import (
	"fmt"
)

// Stage name constants.
// Use these instead of string literals for compile-time safety.
const (
	StageIdeas  = "ideas"
	StageScript = "script"
	StageRevise = "revise"
)

// ---------------------------------------------------------------------------
// Stage type - represents a validated workflow stage
// ---------------------------------------------------------------------------

// Stage represents a validated workflow stage.
// Zero value is invalid and must not be passed to Set.Build.
// Use ParseStage to create from user input, or the pre-parsed values.
type Stage struct {
	name string
}

// Pre-parsed stages for use in code.
var (
	Ideas  = Stage{name: StageIdeas}
	Script = Stage{name: StageScript}
	Revise = Stage{name: StageRevise}
)

// stageOrder defines the canonical order for Stages().
var stageOrder = []Stage{Ideas, Script, Revise}

// ParseStage validates and parses a stage name string.
// Returns ErrUnknownStage if the name is not recognized.
func ParseStage(s string) (Stage, error) {
	if s == "" {
		return Stage{}, fmt.Errorf("stage cannot be empty: %w", ErrUnknownStage)
	}
	for _, st := range stageOrder {
		if st.name == s {
			return st, nil
		}
	}
	return Stage{}, fmt.Errorf("unknown stage %q: %w", s, ErrUnknownStage)
}

// String returns the stage name. Empty for the zero value.
func (s Stage) String() string {
	return s.name
}

// IsZero returns true if no stage is set.
func (s Stage) IsZero() bool {
	return s.name == ""
}

// Stages returns all stages in workflow order (ideas, script, revise).
func Stages() []Stage {
	result := make([]Stage, len(stageOrder))
	copy(result, stageOrder)
	return result
}
