// Package web serves the browser form and the JSON API driving the workflow.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-shortscript/internal/generate"
	"github.com/alnah/go-shortscript/internal/prompt"
	"github.com/alnah/go-shortscript/internal/session"
	"github.com/alnah/go-shortscript/internal/workflow"
)

//go:embed templates/index.html
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server wires the session store, the workflow controller and the event hub
// behind a gin router.
type Server struct {
	engine  *gin.Engine
	store   *session.Store
	ctrl    *workflow.Controller
	hub     *Hub
	gen     generate.Generator
	log     *slog.Logger
	prompts prompt.Set
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStore sets the session store.
func WithStore(st *session.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithPromptSet sets the templates used by the workflow.
func WithPromptSet(set prompt.Set) Option {
	return func(s *Server) {
		s.prompts = set
	}
}

// New creates a Server generating text with gen.
func New(gen generate.Generator, opts ...Option) (*Server, error) {
	s := &Server{
		gen:     gen,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		prompts: prompt.Default(prompt.DefaultStyle),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = session.NewStore()
	}
	s.hub = NewHub(s.log)
	s.ctrl = workflow.NewController(gen,
		workflow.WithPromptSet(s.prompts),
		workflow.WithObserver(s.hub.Observer()),
	)

	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	s.engine = gin.New()
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(gin.Recovery(), requestLogger(s.log))
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	app := s.engine.Group("/", sessionMiddleware(s.store))
	app.GET("/", s.handleIndex)
	app.GET("/ws", s.handleWS)

	api := app.Group("/api")
	api.GET("/state", s.handleState)
	api.POST("/ideas", s.handleIdeas)
	api.POST("/script", s.handleScript)
	api.POST("/revise", s.handleRevise)
	api.POST("/reset", s.handleReset)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the session store.
func (s *Server) Store() *session.Store {
	return s.store
}

// Run serves on addr until ctx is canceled, sweeping idle sessions alongside.
// Returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", "addr", addr, "generator", s.gen.Name(), "style", s.prompts.Style().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return s.store.Run(gctx, func(n int) {
			s.log.Info("swept idle sessions", "removed", n, "remaining", s.store.Len())
		})
	})

	g.Go(func() error {
		<-gctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
