package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/format"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// scriptOptions holds options for the script command.
type scriptOptions struct {
	inputPath string
	output    string
	toStdout  bool
	pick      int
	gen       generationFlags
}

// ScriptCmd creates the script command (transcript to ideas to script).
// The env parameter provides injectable dependencies for testing.
func ScriptCmd(env *Env) *cobra.Command {
	opts := scriptOptions{pick: 1}

	cmd := &cobra.Command{
		Use:   "script <transcript-file>",
		Short: "Generate ideas, then draft a script for one of them",
		Long: `Generate ideas from a transcript, then draft a short-form video script
for the idea selected with --pick (1-based, default 1).

The idea list is printed to stderr so the pick can be adjusted on the next
run. The script is written to <input>_script.md unless --output or --stdout
is given.`,
		Example: `  shortscript script talk.txt
  shortscript script talk.txt --pick 3 -o cats.md
  shortscript script talk.txt --provider openai --model gpt-4o --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputPath = args[0]
			return runScript(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: <input>_script.md)")
	cmd.Flags().BoolVar(&opts.toStdout, "stdout", false, "Print the script to stdout instead of a file")
	cmd.Flags().IntVarP(&opts.pick, "pick", "p", 1, "Idea number to script (1-based)")
	cmd.MarkFlagsMutuallyExclusive("output", "stdout")
	addGenerationFlags(cmd, &opts.gen)

	return cmd
}

// runScript executes the script command.
func runScript(cmd *cobra.Command, env *Env, opts scriptOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	if opts.pick < 1 {
		return fmt.Errorf("--pick %d: must be 1 or more: %w", opts.pick, ErrInvalidPick)
	}

	transcript, err := readInput(env, opts.inputPath)
	if err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	b, err := resolveBackend(env, cfg, opts.gen)
	if err != nil {
		return err
	}
	ctrl := newController(env, b)

	// === IDEAS ===

	st, res, err := ctrl.GenerateIdeas(ctx, workflow.State{}, transcript)
	if err != nil {
		return err
	}
	warnDegradations(env.Stderr, res)
	if len(st.Ideas) == 0 {
		return fmt.Errorf("response contained no usable idea: %w", workflow.ErrNoIdeas)
	}
	listIdeas(env.Stderr, st.Ideas)
	if opts.pick > len(st.Ideas) {
		return fmt.Errorf("--pick %d: only %d ideas were generated: %w", opts.pick, len(st.Ideas), ErrInvalidPick)
	}

	// === SCRIPT ===

	chosen := st.Ideas[opts.pick-1]
	fmt.Fprintf(env.Stderr, "Scripting idea %d: %s\n", opts.pick, chosen.Title)

	st, err = ctrl.GenerateScript(ctx, st, chosen.ID)
	if err != nil {
		return err
	}

	// === WRITE OUTPUT ===

	path, err := emit(env, st.Script, opts.toStdout, opts.output, cfg.OutputDir, deriveOutputPath(opts.inputPath, "_script"))
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(env.Stderr, "Done: %s (%s)\n", path, format.ScriptSummary(st.Script))
	}
	return nil
}
