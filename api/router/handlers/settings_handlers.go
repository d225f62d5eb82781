package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"estateadmin/database"
	"estateadmin/logger"
	"estateadmin/models"
)

// GetEmailSettingsHandler returns the links used in outgoing emails.
func GetEmailSettingsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := database.GetEmailSettings(deps.EmailDefaults)
	if err != nil {
		logger.Error("GetEmailSettingsHandler: Error getting email settings: %v", err)
		http.Error(w, "Failed to retrieve email settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// SaveEmailSettingsHandler replaces the links used in outgoing emails. Blank
// values fall back to the configured defaults.
func SaveEmailSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EmailSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("SaveEmailSettingsHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.SiteURL = strings.TrimSpace(req.SiteURL)
	req.LogoURL = strings.TrimSpace(req.LogoURL)
	for _, raw := range []string{req.SiteURL, req.LogoURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			http.Error(w, "Invalid URL: "+raw, http.StatusBadRequest)
			return
		}
	}

	if err := database.SetEmailSettings(req); err != nil {
		logger.Error("SaveEmailSettingsHandler: Error saving email settings: %v", err)
		http.Error(w, "Failed to save email settings", http.StatusInternalServerError)
		return
	}
	s, err := database.GetEmailSettings(deps.EmailDefaults)
	if err != nil {
		logger.Error("SaveEmailSettingsHandler: Error reloading email settings: %v", err)
		http.Error(w, "Failed to retrieve email settings", http.StatusInternalServerError)
		return
	}
	logger.Info("SaveEmailSettingsHandler: email settings updated.")
	writeJSON(w, http.StatusOK, s)
}
