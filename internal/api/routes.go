package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)
			r.Get("/{id}", s.handleGetSession)
			r.Put("/{id}/transcript", s.handleUpdateTranscript)
			r.Post("/{id}/summarize", s.handleSummarizeSession)
			r.Post("/{id}/flashcards/generate", s.handleGenerateFlashcards)
			r.Get("/{id}/flashcards", s.handleSessionFlashcards)
			r.Get("/{id}/export", s.handleExportSession)
			r.Post("/{id}/delete", s.handleDeleteSession)
		})

		r.Route("/flashcards", func(r chi.Router) {
			r.Post("/", s.handleSaveFlashcards)
			r.Get("/due", s.handleDueFlashcards)
			r.Put("/{id}", s.handleUpdateFlashcard)
			r.Post("/{id}/review", s.handleReviewFlashcard)
		})

		r.Post("/analyze", s.handleAnalyzeDocument)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
	})

	// The browser SPA is the only consumer; it lives on another origin
	// during development.
	c := cors.New(cors.Options{
		AllowedOrigins: strings.Split(s.CORSOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	})
	return c.Handler(r)
}
