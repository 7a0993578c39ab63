package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/generate"
	"github.com/alnah/go-shortscript/internal/prompt"
)

// Provider names accepted on the command line and in the config file.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderOffline = "offline"
)

// API key environment variables.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Provider represents a validated text generation backend.
// Zero value is invalid and must not be used.
// Use ParseProvider to create from user input, or the pre-parsed values.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed providers for use in code.
var (
	GeminiProvider  = Provider{name: ProviderGemini}
	OpenAIProvider  = Provider{name: ProviderOpenAI}
	OfflineProvider = Provider{name: ProviderOffline}
)

// validProviders contains the set of valid provider names.
var validProviders = map[string]bool{
	ProviderGemini:  true,
	ProviderOpenAI:  true,
	ProviderOffline: true,
}

// ParseProvider validates and parses a provider name string.
// Returns ErrInvalidProvider if the name is not recognized.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'gemini', 'openai' or 'offline'): %w", s, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// MustParseProvider parses a provider name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseProvider(s string) Provider {
	p, err := ParseProvider(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the provider name string.
// Returns empty string for zero value.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if no provider is set.
func (p Provider) IsZero() bool {
	return p.name == ""
}

// OrDefault returns the provider, or GeminiProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return GeminiProvider
	}
	return p
}

// APIKeyEnv returns the environment variable holding the provider's key,
// or "" for providers that need none.
func (p Provider) APIKeyEnv() string {
	switch p.name {
	case ProviderGemini:
		return EnvGeminiAPIKey
	case ProviderOpenAI:
		return EnvOpenAIAPIKey
	}
	return ""
}

// generationFlags holds the flags shared by commands that call a generator.
// Empty values fall back to the config file, then to defaults.
type generationFlags struct {
	provider   string
	model      string
	style      string
	promptFile string
	count      int
}

// backend is a ready-to-use generator with the prompt templates it expects.
type backend struct {
	gen      generate.Generator
	provider Provider
	prompts  prompt.Set
}

// resolveBackend picks the provider, loads the prompt templates and creates
// the generator. Flags take precedence over cfg.
func resolveBackend(env *Env, cfg config.Config, f generationFlags) (backend, error) {
	providerName := firstNonEmpty(f.provider, cfg.Provider)
	var provider Provider
	if providerName != "" {
		p, err := ParseProvider(providerName)
		if err != nil {
			return backend{}, err
		}
		provider = p
	}
	provider = provider.OrDefault()

	prompts, err := resolvePrompts(cfg, f)
	if err != nil {
		return backend{}, err
	}

	model := firstNonEmpty(f.model, cfg.Model)

	var gen generate.Generator
	switch provider {
	case OfflineProvider:
		gen = env.GeneratorFactory.NewOffline(prompts.Style() == prompt.Sections)
	default:
		keyEnv := provider.APIKeyEnv()
		apiKey := strings.TrimSpace(env.Getenv(keyEnv))
		if apiKey == "" {
			return backend{}, fmt.Errorf("%s: %w (set it with: export %s=..., or use --provider offline)", keyEnv, ErrAPIKeyMissing, keyEnv)
		}
		if provider == OpenAIProvider {
			gen, err = env.GeneratorFactory.NewOpenAI(apiKey, model)
		} else {
			gen, err = env.GeneratorFactory.NewGemini(apiKey, model)
		}
		if err != nil {
			return backend{}, err
		}
	}

	return backend{gen: gen, provider: provider, prompts: prompts}, nil
}

// resolvePrompts builds the prompt templates from --prompt-file or
// prompt-file, then --style or prompt-style, then --count.
// A style named in the prompt file beats prompt-style but not --style.
func resolvePrompts(cfg config.Config, f generationFlags) (prompt.Set, error) {
	style, err := prompt.ParseStyle(firstNonEmpty(f.style, cfg.PromptStyle))
	if err != nil {
		return prompt.Set{}, err
	}

	set := prompt.Default(style)
	if file := firstNonEmpty(f.promptFile, cfg.PromptFile); file != "" {
		set, err = prompt.LoadFile(config.ExpandPath(file), style)
		if err != nil {
			return prompt.Set{}, err
		}
		if f.style != "" {
			set = set.WithStyle(style)
		}
	}

	if f.count > 0 {
		set = set.WithCount(f.count)
	}
	return set, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
