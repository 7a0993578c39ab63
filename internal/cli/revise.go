package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/format"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// reviseOptions holds options for the revise command.
type reviseOptions struct {
	inputPath    string
	feedback     string
	feedbackFile string
	output       string
	toStdout     bool
	gen          generationFlags
}

// ReviseCmd creates the revise command (script plus feedback to new script).
// The env parameter provides injectable dependencies for testing.
func ReviseCmd(env *Env) *cobra.Command {
	var opts reviseOptions

	cmd := &cobra.Command{
		Use:   "revise <script-file>",
		Short: "Revise a script using feedback",
		Long: `Rewrite an existing script according to feedback.

Feedback is given inline with --feedback or read from a file with
--feedback-file. Empty feedback is allowed and asks for a general polish.
The result is written to <input>_revised.md unless --output or --stdout
is given.`,
		Example: `  shortscript revise talk_script.md --feedback "shorter hook, add a question at the end"
  shortscript revise talk_script.md --feedback-file notes.txt --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputPath = args[0]
			return runRevise(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.feedback, "feedback", "f", "", "Revision instructions")
	cmd.Flags().StringVar(&opts.feedbackFile, "feedback-file", "", "File containing revision instructions")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: <input>_revised.md)")
	cmd.Flags().BoolVar(&opts.toStdout, "stdout", false, "Print the script to stdout instead of a file")
	cmd.MarkFlagsMutuallyExclusive("feedback", "feedback-file")
	cmd.MarkFlagsMutuallyExclusive("output", "stdout")
	addGenerationFlags(cmd, &opts.gen)

	return cmd
}

// runRevise executes the revise command.
func runRevise(cmd *cobra.Command, env *Env, opts reviseOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	script, err := readInput(env, opts.inputPath)
	if err != nil {
		return err
	}

	feedback := opts.feedback
	if opts.feedbackFile != "" {
		// #nosec G304 -- feedbackFile is user-provided
		data, err := os.ReadFile(opts.feedbackFile)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s: %w", opts.feedbackFile, ErrFileNotFound)
			}
			return fmt.Errorf("failed to read feedback: %w", err)
		}
		feedback = string(data)
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	b, err := resolveBackend(env, cfg, opts.gen)
	if err != nil {
		return err
	}

	// === REVISE ===

	st, err := newController(env, b).Revise(ctx, workflow.State{Script: script}, feedback)
	if err != nil {
		return err
	}

	// === WRITE OUTPUT ===

	path, err := emit(env, st.Script, opts.toStdout, opts.output, cfg.OutputDir, deriveOutputPath(opts.inputPath, "_revised"))
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(env.Stderr, "Done: %s (%s)\n", path, format.ScriptSummary(st.Script))
	}
	return nil
}
