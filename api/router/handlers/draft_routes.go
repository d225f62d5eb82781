package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterDraftRoutes(r chi.Router) {
	r.Route("/api/drafts/{formKey}", func(r chi.Router) {
		r.Get("/", GetDraftHandler)
		r.Put("/", SaveDraftHandler)
		r.Delete("/", DeleteDraftHandler)
	})
}
