package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/format"
	"github.com/alnah/go-shortscript/internal/session"
	"github.com/alnah/go-shortscript/internal/web"
)

// DefaultListenAddr is the address served when neither --addr nor
// listen-addr is set.
const DefaultListenAddr = "127.0.0.1:8080"

// serveOptions holds options for the serve command.
type serveOptions struct {
	addr       string
	sessionTTL time.Duration
	logFormat  string
	gen        generationFlags
}

// ServeCmd creates the serve command (browser workflow).
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transcript-to-script workflow in the browser",
		Long: `Serve the transcript-to-script workflow as a web page.

Each browser gets its own session, identified by a cookie. Sessions idle
for longer than --session-ttl are discarded. Progress for each step is
pushed to the page over a WebSocket.

Use --provider offline to try the workflow without an API key.`,
		Example: `  shortscript serve
  shortscript serve --addr :9000 --provider openai
  shortscript serve --provider offline --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, env, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default: "+DefaultListenAddr+")")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", 0, "Idle time before a session is discarded (default: "+format.DurationHuman(session.DefaultTTL)+")")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format: text, json (default: text)")
	addGenerationFlags(cmd, &opts.gen)

	return cmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, env *Env, opts serveOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	logger, err := newLogger(env.Stderr, firstNonEmpty(opts.logFormat, cfg.LogFormat))
	if err != nil {
		return err
	}

	ttl := opts.sessionTTL
	if ttl <= 0 {
		ttl, err = cfg.SessionTTLDuration()
		if err != nil {
			return err
		}
	}
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	b, err := resolveBackend(env, cfg, opts.gen)
	if err != nil {
		return err
	}

	addr := firstNonEmpty(opts.addr, cfg.ListenAddr, DefaultListenAddr)

	// === SERVE ===

	fmt.Fprintf(env.Stderr, "Serving on http://%s (backend: %s, sessions expire after %s idle)\n",
		addr, b.gen.Name(), format.DurationHuman(ttl))

	return env.ServerRunner.Run(ctx, addr, b.gen,
		web.WithLogger(logger),
		web.WithPromptSet(b.prompts),
		web.WithStore(session.NewStore(session.WithTTL(ttl))),
	)
}

// newLogger creates a structured logger writing to w in the given format.
// Empty format selects text.
func newLogger(w io.Writer, logFormat string) (*slog.Logger, error) {
	switch logFormat {
	case "", config.LogFormatText:
		return slog.New(slog.NewTextHandler(w, nil)), nil
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, nil)), nil
	}
	return nil, fmt.Errorf("log format %q (use %q or %q): %w", logFormat, config.LogFormatText, config.LogFormatJSON, config.ErrInvalidValue)
}
