package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterEmailRoutes(r chi.Router) {
	r.Route("/api/email", func(r chi.Router) {
		r.Post("/inquiry/reply", InquiryReplyEmailHandler)
		r.Post("/property/submit", PropertyBroadcastEmailHandler)
		r.Post("/test", TestEmailHandler)
		r.Get("/log", EmailLogHandler)
	})
	r.Post("/api/inquiries/{id}/reply", ReplyToInquiryHandler)
	r.Post("/api/publish/property", PublishPropertyHandler)
}
