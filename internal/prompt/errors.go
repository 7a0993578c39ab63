package prompt

import "errors"

var (
	// ErrUnknownStage indicates an invalid stage name was specified.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrUnknownStyle indicates an invalid prompt style was specified.
	ErrUnknownStyle = errors.New("unknown prompt style")

	// ErrMissingPlaceholder indicates a custom template lacks a placeholder
	// its stage needs (e.g. an ideas template without {transcript}).
	ErrMissingPlaceholder = errors.New("template missing required placeholder")
)
