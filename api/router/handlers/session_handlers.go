package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"estateadmin/database"
	"estateadmin/logger"
	"estateadmin/models"
)

type ctxKey int

const sessionCtxKey ctxKey = iota

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey).(models.Session)
	return sess, ok
}

// WithSession attaches sess to ctx.
func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

// RequireSession loads the session named by the cookie. Requests without a live
// session are redirected to the login page, or get a 401 under /api/.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(deps.CookieName)
		if err != nil || c.Value == "" {
			unauthenticated(w, r)
			return
		}
		sess, err := database.GetSession(c.Value)
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				logger.Error("RequireSession: loading session: %v", err)
			}
			clearCookie(w)
			unauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func mustSession(r *http.Request) models.Session {
	sess, _ := SessionFromContext(r.Context())
	return sess
}

// LoginHandler exchanges a backend bearer token for a dashboard session cookie.
// It accepts a JSON body or a submitted form.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	isForm := !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if isForm {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		req.Token = r.PostForm.Get("token")
		req.UserID = r.PostForm.Get("user_id")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("LoginHandler: Error decoding request body: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
			return
		}
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		if isForm {
			renderLogin(w, http.StatusBadRequest, "A token is required.")
			return
		}
		writeError(w, http.StatusBadRequest, "A token is required.")
		return
	}

	sess, err := database.CreateSession(req.Token, strings.TrimSpace(req.UserID), deps.SessionTTL)
	if err != nil {
		logger.Error("LoginHandler: creating session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     deps.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   deps.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Info("LoginHandler: session %s started for user %q.", sess.ID, sess.UserID)

	if isForm {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"user_id":    sess.UserID,
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
	})
}

// LogoutHandler ends the current session.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	endSession(w, r)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Logged out."})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// endSession removes the cookie's session from the database and the cache.
func endSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(deps.CookieName); err == nil && c.Value != "" {
		if err := database.DeleteSession(c.Value); err != nil {
			logger.Error("endSession: %v", err)
		}
		if deps.Store != nil {
			deps.Store.Forget(c.Value)
		}
	}
	clearCookie(w)
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     deps.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   deps.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoginPageHandler renders the login form.
func LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, http.StatusOK, "")
}
