// Package server implements the storyloom editor HTTP API.
//
// The API is a thin JSON layer over a [store.Store] and the core graph
// operations: every mutation loads the story, applies one core
// operation, and saves the result back. It carries no graph logic of
// its own.
//
// Routes (all JSON):
//
//	GET    /api/stories                      list stories
//	POST   /api/stories                      create a story
//	GET    /api/stories/{slug}               full story payload
//	DELETE /api/stories/{slug}               delete a story
//	POST   /api/stories/{slug}/scenes        add a scene
//	PATCH  /api/stories/{slug}/scenes/{key}  edit text/choices
//	DELETE /api/stories/{slug}/scenes/{key}  cascade delete
//	PUT    /api/stories/{slug}/scenes/{key}/parent  reparent
//	GET    /api/stories/{slug}/tree          DFS enumeration
//	GET    /api/stories/{slug}/check         cycle report
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/storyloom/pkg/store"
)

// Server is the editor HTTP API.
type Server struct {
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server backed by the given store.
func New(s store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{store: s, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/stories", func(r chi.Router) {
		r.Get("/", srv.listStories)
		r.Post("/", srv.createStory)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", srv.getStory)
			r.Delete("/", srv.deleteStory)
			r.Get("/tree", srv.getTree)
			r.Get("/check", srv.checkCycles)
			r.Post("/scenes", srv.addScene)
			r.Route("/scenes/{key}", func(r chi.Router) {
				r.Patch("/", srv.editScene)
				r.Delete("/", srv.removeScene)
				r.Put("/parent", srv.reparentScene)
			})
		})
	})

	srv.router = r
	return srv
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the API on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("editor API listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}
