package cli

import (
	"context"
	"sync"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/generate"
	"github.com/alnah/go-shortscript/internal/web"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock Generator - replies per stage label found on the context
// ---------------------------------------------------------------------------

type generateCall struct {
	Stage  string
	Prompt string
}

type mockGenerator struct {
	// Replies maps a stage label to the text returned for it.
	Replies map[string]string
	// Errs maps a stage label to the error returned for it.
	Errs map[string]error

	mu    sync.Mutex
	calls []generateCall
}

func (m *mockGenerator) Name() string { return "mock" }

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	stage := generate.StageFrom(ctx)

	m.mu.Lock()
	m.calls = append(m.calls, generateCall{Stage: stage, Prompt: prompt})
	m.mu.Unlock()

	if err := m.Errs[stage]; err != nil {
		return "", err
	}
	return m.Replies[stage], nil
}

func (m *mockGenerator) Calls() []generateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generateCall(nil), m.calls...)
}

// ---------------------------------------------------------------------------
// Mock GeneratorFactory
// ---------------------------------------------------------------------------

type factoryCall struct {
	Provider string
	APIKey   string
	Model    string
	Sections bool
}

type mockGeneratorFactory struct {
	// Generator is returned by every constructor. Nil uses a default mockGenerator.
	Generator generate.Generator
	// Err is returned by NewGemini and NewOpenAI.
	Err error

	mu    sync.Mutex
	calls []factoryCall
}

func (m *mockGeneratorFactory) record(c factoryCall) generate.Generator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if m.Generator == nil {
		m.Generator = &mockGenerator{}
	}
	return m.Generator
}

func (m *mockGeneratorFactory) NewGemini(apiKey, model string) (generate.Generator, error) {
	g := m.record(factoryCall{Provider: ProviderGemini, APIKey: apiKey, Model: model})
	if m.Err != nil {
		return nil, m.Err
	}
	return g, nil
}

func (m *mockGeneratorFactory) NewOpenAI(apiKey, model string) (generate.Generator, error) {
	g := m.record(factoryCall{Provider: ProviderOpenAI, APIKey: apiKey, Model: model})
	if m.Err != nil {
		return nil, m.Err
	}
	return g, nil
}

func (m *mockGeneratorFactory) NewOffline(sections bool) generate.Generator {
	return m.record(factoryCall{Provider: ProviderOffline, Sections: sections})
}

func (m *mockGeneratorFactory) Calls() []factoryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]factoryCall(nil), m.calls...)
}

// ---------------------------------------------------------------------------
// Mock ServerRunner
// ---------------------------------------------------------------------------

type serverRunCall struct {
	Addr      string
	Generator generate.Generator
	Options   int
}

type mockServerRunner struct {
	RunFunc func(ctx context.Context, addr string, gen generate.Generator, opts ...web.Option) error

	mu    sync.Mutex
	calls []serverRunCall
}

func (m *mockServerRunner) Run(ctx context.Context, addr string, gen generate.Generator, opts ...web.Option) error {
	m.mu.Lock()
	m.calls = append(m.calls, serverRunCall{Addr: addr, Generator: gen, Options: len(opts)})
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, addr, gen, opts...)
	}
	return nil
}

func (m *mockServerRunner) Calls() []serverRunCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]serverRunCall(nil), m.calls...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ GeneratorFactory   = (*mockGeneratorFactory)(nil)
	_ ServerRunner       = (*mockServerRunner)(nil)
	_ generate.Generator = (*mockGenerator)(nil)
)
