package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dmslite/internal/handlers"
	"dmslite/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Consumer   handlers.Consumer
	Remover    handlers.Remover
	Searcher   handlers.Searcher
	DocStore   storage.DocumentStore
	DB         *sql.DB
	StorageDir string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	consumeHandler := handlers.NewConsumeHandler(deps.Consumer)
	searchHandler := handlers.NewSearchHandler(deps.Searcher)
	documentsHandler := handlers.NewDocumentsHandler(deps.DocStore, deps.Remover)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.StorageDir)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/consume", consumeHandler)
		r.Method(http.MethodGet, "/search", searchHandler)
		r.Get("/documents", documentsHandler.List)
		r.Get("/documents/count", documentsHandler.Count)
		r.Delete("/documents/{id}", documentsHandler.Delete)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
