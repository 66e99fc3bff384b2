package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/project"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Options configure a Server.
type Options struct {
	// Store holds projects. Required.
	Store project.Store

	// Snapshotter renders snapshots. Defaults to an uncached snapshotter.
	Snapshotter *pipeline.Snapshotter

	// Logger receives one line per request. Defaults to discard.
	Logger *log.Logger

	// PublicURL is the base for share links. Share links are omitted when
	// empty.
	PublicURL string
}

// Server is the HTTP API. It is an http.Handler.
type Server struct {
	store     project.Store
	snaps     *pipeline.Snapshotter
	logger    *log.Logger
	publicURL string
	router    chi.Router
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Snapshotter == nil {
		opts.Snapshotter = pipeline.NewSnapshotter(nil, nil, opts.Logger)
	}
	s := &Server{
		store:     opts.Store,
		snaps:     opts.Snapshotter,
		logger:    opts.Logger,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/{id}", s.handleGetProject)
			r.Put("/{id}", s.handleUpdateProject)
			r.Delete("/{id}", s.handleDeleteProject)
			r.Get("/{id}/snapshot.{format}", s.handleSnapshot)
		})
		r.Post("/share", s.handleCreateShare)
		r.Get("/share/{token}", s.handleGetShare)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFoundRoute(r))
	})
	r.MethodNotAllowed(writeMethodNotAllowed)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
