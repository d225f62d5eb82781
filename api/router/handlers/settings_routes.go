package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterSettingsRoutes(r chi.Router) {
	r.Route("/api/settings/email", func(r chi.Router) {
		r.Get("/", GetEmailSettingsHandler)
		r.Put("/", SaveEmailSettingsHandler)
		r.Post("/", SaveEmailSettingsHandler)
	})
}
