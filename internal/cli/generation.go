package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/format"
	"github.com/alnah/go-shortscript/internal/idea"
	"github.com/alnah/go-shortscript/internal/prompt"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// addGenerationFlags registers the backend and prompt flags shared by
// ideas, script, revise and serve.
func addGenerationFlags(cmd *cobra.Command, f *generationFlags) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "Text generation backend: gemini, openai, offline (default: gemini)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name for the provider (default: provider's default)")
	cmd.Flags().StringVar(&f.style, "style", "", "Prompt style: sections, lines (default: sections)")
	cmd.Flags().StringVar(&f.promptFile, "prompt-file", "", "YAML file overriding the prompt templates")
	cmd.Flags().IntVar(&f.count, "count", 0, fmt.Sprintf("Number of ideas to ask for (default: %d)", prompt.DefaultCount))
}

// stageLabels are the progress messages shown while a stage runs.
var stageLabels = map[string]string{
	prompt.StageIdeas:  "Generating ideas",
	prompt.StageScript: "Generating script",
	prompt.StageRevise: "Revising script",
}

// progressObserver reports stage progress to w.
func progressObserver(w io.Writer, backendName string) workflow.Observer {
	return func(_ context.Context, ev workflow.Event) {
		switch ev.Kind {
		case workflow.EventStart:
			_, _ = fmt.Fprintf(w, "%s (%s)...\n", stageLabels[ev.Stage.String()], backendName)
		case workflow.EventDone:
			_, _ = fmt.Fprintf(w, "  done in %s\n", format.Duration(ev.Duration))
		case workflow.EventFail:
			_, _ = fmt.Fprintf(w, "  failed after %s\n", format.Duration(ev.Duration))
		}
	}
}

// newController builds a workflow controller reporting to env.Stderr.
func newController(env *Env, b backend) *workflow.Controller {
	return workflow.NewController(b.gen,
		workflow.WithPromptSet(b.prompts),
		workflow.WithObserver(progressObserver(env.Stderr, b.gen.Name())),
		workflow.WithNow(env.Now),
	)
}

// warnDegradations prints parse warnings to w.
func warnDegradations(w io.Writer, res idea.Result) {
	if !res.Degraded() {
		return
	}
	for _, msg := range res.Warnings() {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", msg)
	}
}

// formatIdeas renders an idea list as Markdown.
func formatIdeas(ideas []idea.Record) string {
	var b strings.Builder
	b.WriteString("# Video Ideas\n")
	for i, rec := range ideas {
		fmt.Fprintf(&b, "\n## %d. %s\n\n%s\n", i+1, rec.Title, strings.TrimSpace(rec.Body))
	}
	return b.String()
}

// listIdeas prints a numbered idea title list to w.
func listIdeas(w io.Writer, ideas []idea.Record) {
	for i, rec := range ideas {
		_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, rec.Title)
	}
}
