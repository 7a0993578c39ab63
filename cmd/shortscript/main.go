package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/apierr"
	"github.com/alnah/go-shortscript/internal/cli"
	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/generate"
	"github.com/alnah/go-shortscript/internal/interrupt"
	"github.com/alnah/go-shortscript/internal/prompt"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitGeneration = 5
	ExitInterrupt  = interrupt.ExitInterrupt
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// First Ctrl+C cancels ctx, second one forces exit.
	handler, ctx := interrupt.NewHandler(context.Background())
	defer handler.Stop()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "shortscript",
		Short:   "Turn transcripts into short-form video ideas and scripts",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.ServeCmd(env))
	rootCmd.AddCommand(cli.IdeasCmd(env))
	rootCmd.AddCommand(cli.ScriptCmd(env))
	rootCmd.AddCommand(cli.ReviseCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		handler.Stop()
		os.Exit(exitCode(err, handler.WasInterrupted()))
	}
}

// exitCode maps errors to process exit codes. Any failure after Ctrl+C
// counts as an interrupt, whatever error the canceled work surfaced.
func exitCode(err error, interrupted bool) int {
	if err == nil {
		return ExitOK
	}

	if interrupted || errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Cobra doesn't expose typed errors for flag/arg parsing.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	if errors.Is(err, cli.ErrAPIKeyMissing) || errors.Is(err, cli.ErrInvalidProvider) ||
		errors.Is(err, generate.ErrEmptyAPIKey) || errors.Is(err, prompt.ErrUnknownStyle) ||
		errors.Is(err, prompt.ErrMissingPlaceholder) || errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrInvalidSyntax) {
		return ExitSetup
	}

	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrOutputExists) ||
		errors.Is(err, cli.ErrInvalidPick) || errors.Is(err, workflow.ErrEmptyInput) ||
		errors.Is(err, workflow.ErrUnknownIdea) || errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, config.ErrInvalidKey) || errors.Is(err, config.ErrNotDirectory) ||
		errors.Is(err, config.ErrNotWritable) {
		return ExitValidation
	}

	if errors.Is(err, workflow.ErrGeneration) || errors.Is(err, workflow.ErrNoIdeas) ||
		apierr.IsKnown(err) {
		return ExitGeneration
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Tested against Cobra v1.8+.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Subcommand doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
