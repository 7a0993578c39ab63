// Package prompt builds the instructions sent to the generation service for
// each workflow stage.
//
// Templates use {name} placeholders. Build substitutes every placeholder in a
// single pass, so text coming from the user (a transcript that happens to
// contain "{idea}") is never interpreted as a placeholder.
package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder names recognized in templates.
const (
	PlaceholderTranscript = "{transcript}"
	PlaceholderIdea       = "{idea}"
	PlaceholderScript     = "{script}"
	PlaceholderFeedback   = "{feedback}"
	PlaceholderCount      = "{count}"
)

// DefaultCount is the number of ideas requested when no count is configured.
const DefaultCount = 5

// required lists the placeholders each stage's template must contain.
var required = map[string][]string{
	StageIdeas:  {PlaceholderTranscript},
	StageScript: {PlaceholderIdea, PlaceholderTranscript},
	StageRevise: {PlaceholderScript, PlaceholderFeedback},
}

// Inputs are the values substituted into a template.
// Fields a stage does not use are ignored.
type Inputs struct {
	Transcript string
	Idea       string
	Script     string
	Feedback   string
}

// Set is the group of templates used for one workflow, plus the delimiter
// style the ideas template asks for.
type Set struct {
	style     Style
	count     int
	templates map[string]string
}

// Default returns the built-in templates for a style.
// A zero style selects DefaultStyle.
func Default(style Style) Set {
	style = style.OrDefault()
	src := sectionsTemplates
	if style == Lines {
		src = linesTemplates
	}
	t := make(map[string]string, len(src))
	for k, v := range src {
		t[k] = v
	}
	return Set{style: style, count: DefaultCount, templates: t}
}

// Style returns the delimiter style of the set.
func (s Set) Style() Style {
	return s.style.OrDefault()
}

// Count returns the number of ideas requested by the ideas template.
func (s Set) Count() int {
	if s.count <= 0 {
		return DefaultCount
	}
	return s.count
}

// WithCount returns a copy of s requesting n ideas. Values below 1 reset to DefaultCount.
func (s Set) WithCount(n int) Set {
	if n < 1 {
		n = DefaultCount
	}
	s.count = n
	return s
}

// WithStyle returns a copy of s using style. Templates still holding the
// built-in text of the previous style switch to the built-in text of the new
// one; custom templates are kept.
func (s Set) WithStyle(style Style) Set {
	style = style.OrDefault()
	if style == s.Style() {
		return s
	}
	old := Default(s.style).templates
	next := Default(style)
	for k, v := range s.templates {
		if v != old[k] {
			next.templates[k] = v
		}
	}
	next.count = s.count
	return next
}

// WithTemplate returns a copy of s with the template for stage replaced.
// Returns ErrMissingPlaceholder if text lacks a placeholder the stage needs.
func (s Set) WithTemplate(stage Stage, text string) (Set, error) {
	if stage.IsZero() {
		return s, fmt.Errorf("stage cannot be empty: %w", ErrUnknownStage)
	}
	if err := validate(stage, text); err != nil {
		return s, err
	}
	t := make(map[string]string, len(s.templates)+1)
	for k, v := range s.templates {
		t[k] = v
	}
	t[stage.name] = text
	s.templates = t
	return s, nil
}

// Template returns the raw template for stage.
// Panics if called with the zero Stage.
func (s Set) Template(stage Stage) string {
	if stage.IsZero() {
		panic("prompt.Set.Template called with zero Stage")
	}
	if t, ok := s.templates[stage.name]; ok {
		return t
	}
	return Default(s.style).templates[stage.name]
}

// Build returns the prompt for stage with in substituted.
// It is pure: identical inputs always yield the identical prompt.
// Panics if called with the zero Stage.
func (s Set) Build(stage Stage, in Inputs) string {
	r := strings.NewReplacer(
		PlaceholderTranscript, in.Transcript,
		PlaceholderIdea, in.Idea,
		PlaceholderScript, in.Script,
		PlaceholderFeedback, in.Feedback,
		PlaceholderCount, strconv.Itoa(s.Count()),
	)
	return r.Replace(s.Template(stage))
}

// Ideas builds the ideas prompt for transcript.
func (s Set) Ideas(transcript string) string {
	return s.Build(Ideas, Inputs{Transcript: transcript})
}

// Script builds the script prompt for an idea body and its source transcript.
func (s Set) Script(ideaText, transcript string) string {
	return s.Build(Script, Inputs{Idea: ideaText, Transcript: transcript})
}

// Revise builds the revision prompt for a script and free-text feedback.
func (s Set) Revise(script, feedback string) string {
	return s.Build(Revise, Inputs{Script: script, Feedback: feedback})
}

func validate(stage Stage, text string) error {
	for _, ph := range required[stage.name] {
		if !strings.Contains(text, ph) {
			return fmt.Errorf("%s template needs %s: %w", stage, ph, ErrMissingPlaceholder)
		}
	}
	return nil
}

// Built-in templates.
// The lines style keeps the short original wording; the sections style asks
// for headed, separated ideas so each one can be parsed on its own.

var linesTemplates = map[string]string{
	StageIdeas: "You are a viral video expert. Based on this transcript, generate {count} short-form video ideas, each on a new line:\n\n{transcript}",

	StageScript: "You are a professional scriptwriter. Write a short, punchy, 60-second video script based on this idea: {idea}\n\nHere is the original transcript for context:\n{transcript}",

	StageRevise: "You are a script editor. Revise this script: {script}\n\nBased on this feedback: {feedback}",
}

var sectionsTemplates = map[string]string{
	StageIdeas: `You are a viral short-form video strategist. Read the transcript below and propose {count} distinct short-form video ideas (TikTok, Reels, Shorts).

Format every idea exactly like this:

**Idea N: <catchy title>**
* Hook: <the first line spoken on camera>
* Angle: <what the video is about, in one sentence>
* Why it works: <one sentence>

Put a line containing only --- between two ideas.
Do not add an introduction or a conclusion.

Transcript:
{transcript}`,

	StageScript: `You are a professional scriptwriter for short-form video. Write a short, punchy script of about 60 seconds based on this idea:

{idea}

Rules:
- Open with a hook in the first 3 seconds
- Write the spoken lines; put visual cues in [brackets]
- End with a clear call to action
- Stay faithful to the transcript; do not invent facts

Original transcript for context:
{transcript}`,

	StageRevise: `You are a script editor. Revise the script below using the feedback.
Keep what the feedback does not mention. Return only the revised script.

Script:
{script}

Feedback:
{feedback}`,
}
