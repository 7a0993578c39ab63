package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSpec is the on-disk shape of a prompt file.
//
//	style: sections
//	count: 3
//	ideas: |
//	  ... {transcript} ...
//
// Every key is optional; omitted templates keep the built-in text for the style.
type fileSpec struct {
	Style  string `yaml:"style"`
	Count  int    `yaml:"count"`
	Ideas  string `yaml:"ideas"`
	Script string `yaml:"script"`
	Revise string `yaml:"revise"`
}

// LoadFile reads a YAML prompt file and returns the resulting Set.
// fallback is the style used when the file does not name one.
func LoadFile(path string, fallback Style) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read prompt file: %w", err)
	}
	set, err := Parse(data, fallback)
	if err != nil {
		return Set{}, fmt.Errorf("prompt file %s: %w", path, err)
	}
	return set, nil
}

// Parse decodes YAML prompt file content.
func Parse(data []byte, fallback Style) (Set, error) {
	var fs fileSpec
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return Set{}, fmt.Errorf("parse yaml: %w", err)
	}

	style := fallback.OrDefault()
	if fs.Style != "" {
		var err error
		if style, err = ParseStyle(fs.Style); err != nil {
			return Set{}, err
		}
	}

	set := Default(style).WithCount(fs.Count)
	overrides := map[string]string{
		StageIdeas:  fs.Ideas,
		StageScript: fs.Script,
		StageRevise: fs.Revise,
	}
	for _, stage := range Stages() {
		text := overrides[stage.String()]
		if text == "" {
			continue
		}
		var err error
		if set, err = set.WithTemplate(stage, text); err != nil {
			return Set{}, err
		}
	}
	return set, nil
}
