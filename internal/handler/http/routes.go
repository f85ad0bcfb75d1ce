package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Post("/auth/refresh", h.refresh)
		r.Post("/auth/request-reset", h.requestResetEmail)
		r.Post("/auth/reset-password", h.resetPassword)

		r.Get("/version", h.getServerVersion)
	})

	// routes behind session authentication
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/auth/logout", h.logout)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.listContacts)
			r.Post("/", h.createContact)
			r.Get("/{contactID}", h.getContact)
			r.Patch("/{contactID}", h.updateContact)
			r.Delete("/{contactID}", h.deleteContact)
		})
	})

	// locally stored photos are served straight from the uploads directory
	if h.serveUploads && h.uploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadsDir)))
		router.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return router
}
