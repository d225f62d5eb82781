package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterScreenRoutes mounts the list screens and their mutations. It expects a
// router that already requires a session.
func RegisterScreenRoutes(r chi.Router) {
	r.Get("/admin", DashboardPageHandler)
	r.Get("/admin/{screen}", ScreenPageHandler)

	r.Get("/api/dashboard/counts", DashboardCountsHandler)
	r.Get("/api/certificates/grouped", GroupedCertificatesHandler)
	r.Get("/api/profile", ProfileHandler)
	r.Get("/api/properties/{id}", PropertyDetailHandler)
	r.Post("/api/properties/{id}/units", AddUnitHandler)

	r.Get("/api/screens", ListScreensHandler)
	r.Get("/api/screens/{screen}", GetScreenHandler)

	r.Route("/api/records/{screen}", func(r chi.Router) {
		r.Post("/", CreateRecordHandler)
		r.Get("/{id}", GetRecordHandler)
		r.Put("/{id}", UpdateRecordHandler)
		r.Post("/{id}", UpdateRecordHandler)
		r.Delete("/{id}", DeleteRecordHandler)
		r.Post("/{id}/status", ChangeStatusHandler)
	})
}
