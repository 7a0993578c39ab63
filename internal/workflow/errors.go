package workflow

import "errors"

var (
	// ErrEmptyInput indicates a stage was triggered without its required text.
	ErrEmptyInput = errors.New("input is empty")

	// ErrGeneration indicates the generation service call failed.
	// The underlying apierr sentinel is wrapped alongside it.
	ErrGeneration = errors.New("generation failed")

	// ErrNoIdeas indicates a script was requested before any ideas exist.
	ErrNoIdeas = errors.New("no ideas generated yet")

	// ErrUnknownIdea indicates the selected idea ID is not in the current batch.
	ErrUnknownIdea = errors.New("unknown idea")

	// ErrNoScript indicates a revision was requested before a script exists.
	ErrNoScript = errors.New("no script to revise")

	// ErrBusy indicates another action is still running for the same state.
	ErrBusy = errors.New("another action is in progress")
)
