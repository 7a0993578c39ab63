package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/generate"
	"github.com/alnah/go-shortscript/internal/web"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader     ConfigLoader
	GeneratorFactory GeneratorFactory
	ServerRunner     ServerRunner
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// GeneratorFactory creates text generators for each provider.
type GeneratorFactory interface {
	NewGemini(apiKey, model string) (generate.Generator, error)
	NewOpenAI(apiKey, model string) (generate.Generator, error)
	NewOffline(sections bool) generate.Generator
}

// ServerRunner builds the web server and serves until ctx is canceled.
type ServerRunner interface {
	Run(ctx context.Context, addr string, gen generate.Generator, opts ...web.Option) error
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithGeneratorFactory sets the generator factory.
func WithGeneratorFactory(f GeneratorFactory) EnvOption {
	return func(e *Env) {
		e.GeneratorFactory = f
	}
}

// WithServerRunner sets the server runner.
func WithServerRunner(r ServerRunner) EnvOption {
	return func(e *Env) {
		e.ServerRunner = r
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Now:              time.Now,
		ConfigLoader:     &defaultConfigLoader{},
		GeneratorFactory: &defaultGeneratorFactory{},
		ServerRunner:     &defaultServerRunner{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultGeneratorFactory implements GeneratorFactory using the generate package.
type defaultGeneratorFactory struct{}

func (defaultGeneratorFactory) NewGemini(apiKey, model string) (generate.Generator, error) {
	var opts []generate.GeminiOption
	if model != "" {
		opts = append(opts, generate.WithGeminiModel(model))
	}
	return generate.NewGeminiGenerator(apiKey, opts...)
}

func (defaultGeneratorFactory) NewOpenAI(apiKey, model string) (generate.Generator, error) {
	var opts []generate.OpenAIOption
	if model != "" {
		opts = append(opts, generate.WithOpenAIModel(model))
	}
	return generate.NewOpenAIGenerator(apiKey, opts...)
}

func (defaultGeneratorFactory) NewOffline(sections bool) generate.Generator {
	return generate.NewOfflineGenerator(sections)
}

// defaultServerRunner implements ServerRunner using the web package.
type defaultServerRunner struct{}

func (defaultServerRunner) Run(ctx context.Context, addr string, gen generate.Generator, opts ...web.Option) error {
	gin.SetMode(gin.ReleaseMode)
	srv, err := web.New(gen, opts...)
	if err != nil {
		return err
	}
	return srv.Run(ctx, addr)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*defaultConfigLoader)(nil)
	_ GeneratorFactory = (*defaultGeneratorFactory)(nil)
	_ ServerRunner     = (*defaultServerRunner)(nil)
)
