package database

import (
	"database/sql"
	"fmt"

	"estateadmin/models"
)

// GetSetting retrieves a specific setting value from the app_settings table.
func GetSetting(key string) (string, error) {
	var value string
	err := DB.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil // Return empty string if not found, not an error
		}
		return "", fmt.Errorf("failed to get setting '%s': %w", key, err)
	}
	return value, nil
}

// SetSetting saves or updates a specific setting value in the app_settings table.
func SetSetting(key, value string) error {
	stmt, err := DB.Prepare("INSERT OR REPLACE INTO app_settings (key, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare set setting statement for key '%s': %w", key, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(key, value)
	if err != nil {
		return fmt.Errorf("failed to execute set setting for key '%s': %w", key, err)
	}
	return nil
}

// GetEmailSettings returns the stored email branding, falling back to defaults for
// any value that was never set.
func GetEmailSettings(defaults models.EmailSettings) (models.EmailSettings, error) {
	out := defaults
	site, err := GetSetting(models.EmailSiteURLKey)
	if err != nil {
		return out, err
	}
	if site != "" {
		out.SiteURL = site
	}
	logo, err := GetSetting(models.EmailLogoURLKey)
	if err != nil {
		return out, err
	}
	if logo != "" {
		out.LogoURL = logo
	}
	return out, nil
}

// SetEmailSettings stores the email branding. Empty values clear the override.
func SetEmailSettings(s models.EmailSettings) error {
	if err := SetSetting(models.EmailSiteURLKey, s.SiteURL); err != nil {
		return err
	}
	return SetSetting(models.EmailLogoURLKey, s.LogoURL)
}
