// Package workflow sequences the ideas, script and revise stages.
//
// A Controller holds no per-user data. Each operation receives the caller's
// State and returns the next State; on any failure the input State is
// returned unchanged together with the error, so the caller can simply keep
// what it had and let the user try again.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-shortscript/internal/generate"
	"github.com/alnah/go-shortscript/internal/idea"
	"github.com/alnah/go-shortscript/internal/prompt"
)

// EventKind tells what happened to a stage call.
type EventKind int

// Event kinds.
const (
	EventStart EventKind = iota
	EventDone
	EventFail
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventDone:
		return "done"
	case EventFail:
		return "fail"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports progress of one generation call.
type Event struct {
	Stage    prompt.Stage
	Kind     EventKind
	Err      error         // set for EventFail
	Duration time.Duration // set for EventDone and EventFail
}

// Observer receives stage events. It is called synchronously on the
// goroutine running the operation and must not block.
type Observer func(ctx context.Context, ev Event)

// Controller runs workflow stages against a Generator.
// Safe for concurrent use if the Generator is.
type Controller struct {
	gen      generate.Generator
	prompts  prompt.Set
	observer Observer
	now      func() time.Time
	idOpts   []idea.Option
}

// Option configures a Controller.
type Option func(*Controller)

// WithPromptSet sets the templates used for every stage.
// The set's style also decides how ideas responses are split.
func WithPromptSet(set prompt.Set) Option {
	return func(c *Controller) {
		c.prompts = set
	}
}

// WithObserver registers a stage event callback.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithNow sets the clock used for State.UpdatedAt.
func WithNow(fn func() time.Time) Option {
	return func(c *Controller) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithIDFunc sets the idea ID generator (for deterministic tests).
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) {
		c.idOpts = append(c.idOpts, idea.WithIDFunc(fn))
	}
}

// NewController creates a Controller. Without WithPromptSet the default
// templates for prompt.DefaultStyle are used.
func NewController(gen generate.Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:     gen,
		prompts: prompt.Default(prompt.DefaultStyle),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prompts returns the template set in use.
func (c *Controller) Prompts() prompt.Set {
	return c.prompts
}

// GenerateIdeas asks for ideas about transcript and parses them.
//
// On success the returned State holds the new transcript and idea batch; the
// previously chosen idea and script are cleared since they belonged to the old
// batch. A response with no usable idea is not an error: the State then has
// no ideas and the Result reports an Empty degradation.
func (c *Controller) GenerateIdeas(ctx context.Context, st State, transcript string) (State, idea.Result, error) {
	if st.Busy {
		return st, idea.Result{}, ErrBusy
	}
	if strings.TrimSpace(transcript) == "" {
		return st, idea.Result{}, fmt.Errorf("transcript: %w", ErrEmptyInput)
	}

	raw, err := c.call(ctx, prompt.Ideas, c.prompts.Ideas(transcript))
	if err != nil {
		return st, idea.Result{}, err
	}

	parser := idea.NewParser(c.prompts.Style().Delimiter(), c.idOpts...)
	res := parser.Parse(raw)

	next := st.Clone()
	next.Transcript = transcript
	next.Ideas = res.Ideas
	next.Warnings = res.Warnings()
	next.Chosen = nil
	next.Script = ""
	next.UpdatedAt = c.now()
	return next, res, nil
}

// GenerateScript drafts a script for the idea with ideaID. The idea's full
// body, not its title, is sent along with the transcript.
func (c *Controller) GenerateScript(ctx context.Context, st State, ideaID string) (State, error) {
	if st.Busy {
		return st, ErrBusy
	}
	if len(st.Ideas) == 0 {
		return st, ErrNoIdeas
	}
	rec, ok := st.Idea(ideaID)
	if !ok {
		return st, fmt.Errorf("idea %q: %w", ideaID, ErrUnknownIdea)
	}

	script, err := c.call(ctx, prompt.Script, c.prompts.Script(rec.Body, st.Transcript))
	if err != nil {
		return st, err
	}

	next := st.Clone()
	next.Chosen = &rec
	next.Script = script
	next.UpdatedAt = c.now()
	return next, nil
}

// Revise rewrites the current script using feedback. Empty feedback is
// allowed and sent as-is.
func (c *Controller) Revise(ctx context.Context, st State, feedback string) (State, error) {
	if st.Busy {
		return st, ErrBusy
	}
	if !st.HasScript() {
		return st, ErrNoScript
	}

	script, err := c.call(ctx, prompt.Revise, c.prompts.Revise(st.Script, feedback))
	if err != nil {
		return st, err
	}

	next := st.Clone()
	next.Script = script
	next.UpdatedAt = c.now()
	return next, nil
}

// call runs one generation and reports it to the observer.
func (c *Controller) call(ctx context.Context, stage prompt.Stage, text string) (string, error) {
	start := c.now()
	c.emit(ctx, Event{Stage: stage, Kind: EventStart})

	out, err := c.gen.Generate(generate.WithStage(ctx, stage.String()), text)
	elapsed := c.now().Sub(start)
	if err != nil {
		err = fmt.Errorf("%s stage: %w: %w", stage, ErrGeneration, err)
		c.emit(ctx, Event{Stage: stage, Kind: EventFail, Err: err, Duration: elapsed})
		return "", err
	}

	c.emit(ctx, Event{Stage: stage, Kind: EventDone, Duration: elapsed})
	return out, nil
}

func (c *Controller) emit(ctx context.Context, ev Event) {
	if c.observer != nil {
		c.observer(ctx, ev)
	}
}
