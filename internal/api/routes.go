package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configures the full HTTP surface: the extraction relay, the
// CRUD endpoints over the store controllers, the health check, and — in
// production mode — the built client bundle.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// Production serves the bundled client from the same origin, so any
	// origin is fine; development talks to the CRA dev server on :3000.
	allowedOrigins := []string{"http://localhost:3000"}
	if s.cfg.Server.IsProduction() {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HandleHealth)
		r.Post("/extract", s.HandleExtract)

		r.Get("/contacts", s.HandleGetContacts)

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.HandleGetContactLists)
			r.Post("/", s.HandleCreateContactList)
			r.Post("/{id}/contacts", s.HandleAddContactsToList)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", s.HandleGetCampaigns)
			r.Post("/", s.HandleCreateCampaign)
			r.Put("/{id}", s.HandleUpdateCampaign)
			r.Post("/{id}/schedule", s.HandleScheduleCampaign)
			r.Post("/{id}/preview", s.HandlePreviewCampaign)
		})

		r.Get("/user", s.HandleGetUser)
		r.Put("/user", s.HandleSaveUser)

		r.Get("/analytics/summary", s.HandleAnalyticsSummary)
	})

	if s.cfg.Server.IsProduction() {
		s.serveStatic(r)
	}

	return r
}

// serveStatic serves the built client bundle with an index.html
// fallback so client-side routes resolve after a hard refresh.
func (s *Server) serveStatic(r *chi.Mux) {
	dir := s.cfg.Server.StaticDir
	fs := http.FileServer(http.Dir(dir))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			http.NotFound(w, req)
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, filepath.Join(dir, "index.html"))
	})
}
