package handlers

import (
	"net/http"

	"estateadmin/database"
	"estateadmin/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", healthCheckHandler)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"ok": true}
	if database.DB != nil {
		if err := database.DB.PingContext(r.Context()); err != nil {
			logger.Error("healthCheckHandler: database ping failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "database": "unavailable"})
			return
		}
		status["database"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}
