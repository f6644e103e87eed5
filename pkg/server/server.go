// Package server hosts navkit applications over HTTP: it serves the
// server-rendered shell, upgrades clients into websocket sessions, and
// optionally exposes Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-go/navkit/pkg/middleware"
	"github.com/vango-go/navkit/pkg/session"
	"github.com/vango-go/navkit/pkg/vdom"
)

// AppFunc builds the root component tree for one session. It runs once
// per session, before hydration; components should mount themselves on
// the session's location stream and register for teardown with Own.
type AppFunc func(sess *session.Session) *vdom.VNode

// Server is the HTTP host for a navkit application.
type Server struct {
	addr    string
	baseURL *url.URL
	logger  *slog.Logger
	title   string
	metrics bool

	app          AppFunc
	interceptors []session.EventInterceptor
	upgrader     websocket.Upgrader
	httpServer   *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithAddr sets the listen address. Default ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithBaseURL sets the application base URL used to resolve link hrefs
// and request locations.
func WithBaseURL(base *url.URL) Option {
	return func(s *Server) { s.baseURL = base }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTitle sets the shell document title.
func WithTitle(title string) Option {
	return func(s *Server) { s.title = title }
}

// WithMetrics exposes Prometheus metrics on GET /metrics.
func WithMetrics(enabled bool) Option {
	return func(s *Server) { s.metrics = enabled }
}

// WithInterceptors wires event interceptors into every session.
func WithInterceptors(ics ...session.EventInterceptor) Option {
	return func(s *Server) { s.interceptors = append(s.interceptors, ics...) }
}

// New creates a server for the given application.
func New(app AppFunc, opts ...Option) (*Server, error) {
	if app == nil {
		return nil, errors.New("server: nil app")
	}

	s := &Server{
		addr:   ":8080",
		logger: slog.Default(),
		title:  "navkit",
		app:    app,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.baseURL == nil {
		host := s.addr
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		base, err := url.Parse("http://" + host + "/")
		if err != nil {
			return nil, fmt.Errorf("server: derive base URL: %w", err)
		}
		s.baseURL = base
	}
	return s, nil
}

// BaseURL returns the application base URL.
func (s *Server) BaseURL() *url.URL { return s.baseURL }

// Handler returns the HTTP handler tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.NotFound(s.handleIndex)
	return r
}

// ListenAndServe serves until ctx is canceled, then drains.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.addr, "base_url", s.baseURL.String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleIndex renders the application shell for any page request. The
// tree is built against a throwaway session seeded with the request
// location, so active classes are correct on first paint.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := session.New(nopConn{},
		session.WithLogger(s.logger),
		session.WithLocation(s.requestLocation(r)),
	)
	defer sess.Close()

	root := s.app(sess)
	sess.Hydrate(root)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s\n</body>\n</html>\n",
		html.EscapeString(s.title), vdom.RenderString(root))
}

// handleWebSocket upgrades the request into a live session and blocks
// until it ends.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := session.New(conn,
		session.WithLogger(s.logger),
		session.WithLocation(s.requestLocation(r)),
		session.WithInterceptor(s.interceptors...),
	)

	root := s.app(sess)
	sess.Hydrate(root)
	sess.Start()

	middleware.RecordSessionStart()
	s.logger.Info("session started", "remote", r.RemoteAddr)

	<-sess.Done()
	middleware.RecordSessionEnd()
	s.logger.Info("session ended", "remote", r.RemoteAddr)
}

// requestLocation resolves the request path against the base URL so
// sessions always start from an absolute location.
func (s *Server) requestLocation(r *http.Request) string {
	return s.baseURL.ResolveReference(&url.URL{
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}).String()
}

// nopConn backs the throwaway sessions used for shell rendering.
type nopConn struct{}

func (nopConn) ReadMessage() (int, []byte, error)  { return 0, nil, errors.New("nop connection") }
func (nopConn) WriteMessage(int, []byte) error     { return nil }
func (nopConn) Close() error                       { return nil }
