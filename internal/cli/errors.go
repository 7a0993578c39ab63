package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates the selected provider's API key variable is not set.
	ErrAPIKeyMissing = errors.New("API key environment variable not set")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrInvalidPick indicates --pick is outside the generated idea list.
	ErrInvalidPick = errors.New("invalid idea number")
)
