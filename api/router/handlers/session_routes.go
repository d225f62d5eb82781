package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterSessionRoutes mounts the public login endpoints.
func RegisterSessionRoutes(r chi.Router) {
	r.Get("/login", LoginPageHandler)
	r.Post("/login", LoginHandler)
	r.Post("/logout", LogoutHandler)
	r.Post("/api/session", LoginHandler)
	r.Delete("/api/session", LogoutHandler)
}
