package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/workflow"
)

// ideasOptions holds options for the ideas command.
type ideasOptions struct {
	inputPath string
	output    string
	gen       generationFlags
}

// IdeasCmd creates the ideas command (transcript to video ideas).
// The env parameter provides injectable dependencies for testing.
func IdeasCmd(env *Env) *cobra.Command {
	var opts ideasOptions

	cmd := &cobra.Command{
		Use:   "ideas <transcript-file>",
		Short: "Generate short-form video ideas from a transcript",
		Long: `Generate short-form video ideas from a transcript.

The transcript is sent to the text generation backend, which proposes
several ideas, each with a title and a hook. Ideas are printed as Markdown
to stdout, or written to a file with --output.

Use "-" as the file name to read the transcript from stdin.`,
		Example: `  shortscript ideas talk.txt
  shortscript ideas talk.txt -o ideas.md --count 3
  cat talk.txt | shortscript ideas - --provider offline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputPath = args[0]
			return runIdeas(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	addGenerationFlags(cmd, &opts.gen)

	return cmd
}

// runIdeas executes the ideas command.
func runIdeas(cmd *cobra.Command, env *Env, opts ideasOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

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

	// === GENERATE ===

	st, res, err := newController(env, b).GenerateIdeas(ctx, workflow.State{}, transcript)
	if err != nil {
		return err
	}
	warnDegradations(env.Stderr, res)
	if len(st.Ideas) == 0 {
		return fmt.Errorf("response contained no usable idea: %w", workflow.ErrNoIdeas)
	}

	// === WRITE OUTPUT ===

	path, err := emit(env, formatIdeas(st.Ideas), opts.output == "", opts.output, cfg.OutputDir, "")
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(env.Stderr, "Done: %s (%d ideas)\n", path, len(st.Ideas))
	}
	return nil
}
