package models

// EmailSettings are the admin-editable values injected into email templates.
type EmailSettings struct {
	SiteURL string `json:"site_url"`
	LogoURL string `json:"logo_url"`
}
