package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-shortscript/internal/prompt"
)

// Stage labels carried on the context so backends can tell calls apart.
const (
	StageIdeas  = "ideas"
	StageScript = "script"
	StageRevise = "revise"
)

type stageKey struct{}

// WithStage returns a context labelled with the workflow stage issuing the call.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey{}, stage)
}

// StageFrom returns the stage label set by WithStage, or "".
func StageFrom(ctx context.Context) string {
	s, _ := ctx.Value(stageKey{}).(string)
	return s
}

// Compile-time interface compliance check.
var _ Generator = (*OfflineGenerator)(nil)

// OfflineGenerator returns canned responses without any network call.
// It is meant for demos and for running the server without credentials.
type OfflineGenerator struct {
	sections bool
}

// NewOfflineGenerator creates an OfflineGenerator. When sections is true the
// ideas response uses bold "Idea N:" headings separated by "---" lines;
// otherwise it returns one idea per line.
func NewOfflineGenerator(sections bool) *OfflineGenerator {
	return &OfflineGenerator{sections: sections}
}

// Name returns "offline".
func (g *OfflineGenerator) Name() string {
	return "offline"
}

var offlineIdeas = []struct{ title, hook string }{
	{"The One Thing Nobody Mentions", "Everyone talks about this topic, but they skip the part that matters."},
	{"Myth vs Fact in 30 Seconds", "You have probably heard this before. It is wrong."},
	{"Three Steps You Can Try Today", "Give me 60 seconds and you will know exactly where to start."},
	{"The Story Behind It", "This started with a single, unlikely moment."},
	{"What I Would Do Differently", "If I had to start over, here is what I would change."},
}

// Generate returns a canned response for the stage found on ctx.
// Without a stage label the prompt is treated as a script request.
func (g *OfflineGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch StageFrom(ctx) {
	case StageIdeas:
		return g.ideas(), nil
	case StageRevise:
		return offlineScript("Revised draft"), nil
	default:
		return offlineScript("Draft"), nil
	}
}

func (g *OfflineGenerator) ideas() string {
	var b strings.Builder
	for i, it := range offlineIdeas {
		if !g.sections {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, it.title, it.hook)
			continue
		}
		if i > 0 {
			fmt.Fprintf(&b, "\n%s\n\n", prompt.Sections.Delimiter().Token())
		}
		fmt.Fprintf(&b, "**Idea %d: %s**\n* Hook: %s\n", i+1, it.title, it.hook)
	}
	return b.String()
}

func offlineScript(label string) string {
	return label + ` (offline mode)

[0-3s] HOOK: Stop scrolling. This takes less than a minute.
[3-20s] Here is the one idea from the conversation worth remembering.
[20-50s] Walk through it in three quick beats, one sentence each.
[50-60s] CTA: Follow for the next part.`
}
