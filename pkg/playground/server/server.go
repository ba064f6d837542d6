// Package server hosts the playground page on localhost.
//
// The host serves the Cytoscape page, a small JSON API over a
// [playground.Session], a websocket that pushes session state to the page
// and receives interaction events, and optionally a Prometheus /metrics
// endpoint.
//
// It also implements render.Publisher: the browser backend publishes a
// graph, screenshots the returned /view/{token} URL and unpublishes it.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/playground"
)

//go:embed web
var webFS embed.FS

var templates = template.Must(template.ParseFS(webFS, "web/*.html"))

// Options configures a Server.
type Options struct {
	// Logger receives request logs. Nil uses log.Default().
	Logger *log.Logger
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
}

// Server is the playground host.
type Server struct {
	session *playground.Session
	logger  *log.Logger
	metrics http.Handler
	hub     *hub
	router  chi.Router

	mu        sync.RWMutex
	baseURL   string
	published map[string]*flowchart.Graph
	srv       *http.Server
}

// New returns a host for sess. Call Handler to mount it or Start /
// ListenAndServe to serve it.
func New(sess *playground.Session, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		session:   sess,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		published: map[string]*flowchart.Graph{},
	}
	s.hub = newHub(sess, opts.Logger)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Session returns the hosted session.
func (s *Server) Session() *playground.Session { return s.session }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleIndex)
	r.Get("/view/{token}", s.handleView)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(mustSub(webFS, "web")))))
	r.Get("/ws", s.hub.serveWS)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		r.Get("/datasets", s.handleDatasets)
		r.Post("/datasets/{name}", s.handleLoadDataset)
		r.Get("/layouts", s.handleLayouts)
		r.Put("/layout/{name}", s.handleSetLayout)
		r.Post("/elements", s.handleApplyElements)
		r.Get("/export", s.handleExport)
		r.Get("/export/examples", s.handleExportExamples)
		r.Get("/nodes/{id}", s.handleNodeInfo)
		r.Post("/events", s.handleEvent)
		r.Post("/zoom/{op}", s.handleZoom)
		r.Get("/convert/{format}", s.handleConvert)
		r.Get("/graphs/{token}", s.handlePublished)
	})
	return r
}

// =============================================================================
// Publishing
// =============================================================================

// Publish makes a copy of g viewable at /view/{token} until unpublish is
// called. The URL is absolute once the server is listening.
func (s *Server) Publish(g *flowchart.Graph) (string, func()) {
	token := tokenSlug(g.ID) + "-" + uuid.NewString()[:8]
	s.mu.Lock()
	s.published[token] = g.Clone()
	base := s.baseURL
	s.mu.Unlock()

	return base + "/view/" + token, func() {
		s.mu.Lock()
		delete(s.published, token)
		s.mu.Unlock()
	}
}

// tokenSlug keeps the URL-safe characters of a graph id so tokens stay
// readable without needing escaping.
func tokenSlug(id string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if slug == "" {
		return "graph"
	}
	return slug
}

func (s *Server) publishedGraph(token string) (*flowchart.Graph, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.published[token]
	return g, ok
}

// =============================================================================
// Lifecycle
// =============================================================================

// Start serves on an ephemeral localhost port in the background and returns
// the base URL. The server stops when ctx is cancelled or Close is called.
func (s *Server) Start(ctx context.Context) (string, error) {
	return s.Listen(ctx, "127.0.0.1:0")
}

// Listen serves on addr in the background and returns the base URL.
func (s *Server) Listen(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}
	return s.serve(ctx, ln), nil
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	base, err := s.Listen(ctx, addr)
	if err != nil {
		return err
	}
	s.logger.Info("playground listening", "url", base, "session", s.session.ID()[:8])
	<-ctx.Done()
	return s.Close()
}

func (s *Server) serve(ctx context.Context, ln net.Listener) string {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	base := "http://" + ln.Addr().String()

	s.mu.Lock()
	s.srv = srv
	s.baseURL = base
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("serve", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	return base
}

// Close shuts the server down, waiting briefly for open requests.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.hub.closeAll()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}
