package models

// EmailSiteURLKey is the app_settings key overriding the public site link in emails.
const EmailSiteURLKey = "email_site_url"

// EmailLogoURLKey is the app_settings key overriding the logo image URL in emails.
const EmailLogoURLKey = "email_logo_url"

// PropertyDraftFormKey names the multi-step property form's draft.
const PropertyDraftFormKey = "property"
