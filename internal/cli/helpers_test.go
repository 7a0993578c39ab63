package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/prompt"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	generator    *mockGenerator
	factory      *mockGeneratorFactory
	server       *mockServerRunner
	stdout       *syncBuffer
	stderr       *syncBuffer
}

func newTestMocks() *testMocks {
	gen := &mockGenerator{Replies: map[string]string{
		prompt.StageIdeas:  twoIdeas,
		prompt.StageScript: "Hook: cats run at 3am.\nBody: it's instinct.",
		prompt.StageRevise: "Hook: why your cat sprints at 3am.",
	}}
	return &testMocks{
		configLoader: &mockConfigLoader{},
		generator:    gen,
		factory:      &mockGeneratorFactory{Generator: gen},
		server:       &mockServerRunner{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
}

// twoIdeas is a sections-style ideas response with two ideas.
const twoIdeas = "**Idea 1: Night Zoomies**\n* Hook: 3am sprint explained\n---\n**Idea 2: The Cat Loaf**\n* Hook: why cats fold their paws"

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdin  io.Reader
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdin(s string) testEnvOption {
	return func(o *testEnvOptions) { o.stdin = strings.NewReader(s) }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdin:  strings.NewReader(""),
		getenv: defaultTestEnv,
		now: func() time.Time {
			return time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)
		},
		mocks: newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdin:            options.stdin,
		Stdout:           options.mocks.stdout,
		Stderr:           options.mocks.stderr,
		Getenv:           options.getenv,
		Now:              options.now,
		ConfigLoader:     options.mocks.configLoader,
		GeneratorFactory: options.mocks.factory,
		ServerRunner:     options.mocks.server,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns API keys for both Gemini and OpenAI.
func defaultTestEnv(key string) string {
	switch key {
	case EnvGeminiAPIKey:
		return "test-gemini-key"
	case EnvOpenAIAPIKey:
		return "test-openai-key"
	default:
		return ""
	}
}

// writeTestFile creates a file with content in a temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// readTestFile returns a file's content, failing the test on error.
func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// configWithOutputDir returns a ConfigLoader that returns a config with the given output directory.
func configWithOutputDir(outputDir string) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return config.Config{OutputDir: outputDir}, nil
		},
	}
}

// testCmd returns a cobra command carrying ctx, as RunE receives it.
func testCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	return cmd
}
