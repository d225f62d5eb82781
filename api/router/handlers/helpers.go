package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"estateadmin/backend"
	"estateadmin/core"
	"estateadmin/logger"
	"estateadmin/models"
)

// Deps are the collaborators every handler works with.
type Deps struct {
	Store         *core.Store
	Screens       *core.Registry
	Notifier      *core.Notifier
	SessionTTL    time.Duration
	CookieName    string
	SecureCookie  bool
	EmailDefaults models.EmailSettings
}

var deps Deps

// Setup installs the handler dependencies. It must run before the router serves.
func Setup(d Deps) {
	if d.CookieName == "" {
		d.CookieName = "estateadmin_session"
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = 12 * time.Hour
	}
	deps = d
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writeJSON: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Message: msg})
}

func wantsHTML(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, "/api/") && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// writeFailure maps an error from the store, notifier or backend to a response.
// A backend 401 ends the local session as well.
func writeFailure(w http.ResponseWriter, r *http.Request, handler string, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, core.ErrBusy):
		writeError(w, http.StatusConflict, core.ErrorMessage(err))
	case core.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "A valid email address is required.")
	case errors.As(err, &apiErr):
		logger.Error("%s: backend call failed: %v", handler, err)
		if apiErr.Kind == backend.KindUnauthorized {
			endSession(w, r)
			if wantsHTML(r) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
		}
		writeError(w, apiErr.HTTPStatus(), apiErr.UserMessage())
	case errors.Is(err, r.Context().Err()) && r.Context().Err() != nil:
		logger.Debug("%s: request cancelled: %v", handler, err)
	default:
		logger.Error("%s: %v", handler, err)
		writeError(w, http.StatusInternalServerError, backend.MessageUnexpected)
	}
}

// servesStale reports whether cached rows may stand in for a failed refetch.
func servesStale(err error) bool {
	return !backend.IsKind(err, backend.KindUnauthorized) && !backend.IsKind(err, backend.KindRateLimited)
}

func isInvalidEmail(err error) bool { return errors.Is(err, core.ErrInvalidEmail) }

func isBackend(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) || errors.Is(err, core.ErrBusy)
}
