// Package server serves the viewer frontend, the viewer WebSocket and the
// browser pose feed.
package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/soar/XRControllerView/internal/hub"
)

// Config wires a Server.
type Config struct {
	Addr        string
	Hub         *hub.Hub
	Broadcaster *hub.Broadcaster
	// Feed receives browser pose frames on /feed. Optional.
	Feed     http.Handler
	Frontend fs.FS
	// Minify compresses html, css and js on the fly.
	Minify bool
	Logger *slog.Logger
}

type Server struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.serveViewer)
	if s.cfg.Feed != nil {
		mux.Handle("/feed", s.cfg.Feed)
	}

	// Static files (frontend)
	var static http.Handler = http.FileServer(http.FS(s.cfg.Frontend))
	if s.cfg.Minify {
		static = newMinifier().Middleware(static)
	}
	mux.Handle("/", static)
	return mux
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return m
}

func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
