package api

import (
	"net/http"
	"time"

	"estateadmin/api/router/handlers"
	"estateadmin/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the dashboard's HTTP handler. handlers.Setup must have been
// called first.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	handlers.RegisterHealthRoutes(r)
	handlers.RegisterVersionRoutes(r)
	handlers.RegisterSessionRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireSession)
		handlers.RegisterScreenRoutes(r)
		handlers.RegisterEmailRoutes(r)
		handlers.RegisterCalendarRoutes(r)
		handlers.RegisterDraftRoutes(r)
		handlers.RegisterSettingsRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("ROUTER CATCH-ALL: Unhandled route: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%d bytes, %s) [%s]", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}
