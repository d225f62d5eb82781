package cmd

import (
	"fmt"
	"time"

	"estateadmin/api/router/handlers"
	"estateadmin/backend"
	"estateadmin/config"
	"estateadmin/core"
	"estateadmin/database"
	"estateadmin/logger"
	"estateadmin/mailer"
	"estateadmin/models"
)

// app holds the services built from the loaded configuration.
type app struct {
	store    *core.Store
	screens  *core.Registry
	notifier *core.Notifier
	defaults models.EmailSettings
}

func emailDefaults() models.EmailSettings {
	return models.EmailSettings{
		SiteURL: config.AppConfig.Mail.SiteURL,
		LogoURL: config.AppConfig.Mail.LogoURL,
	}
}

// newMailSender returns the SMTP sender, or an in-memory one when no host is
// configured so the dashboard still runs without mail.
func newMailSender() (mailer.Sender, error) {
	mc := config.AppConfig.Mail
	if mc.Host == "" {
		logger.Warn("No mail host configured, emails will be recorded but not delivered.")
		return &mailer.MemorySender{}, nil
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     mc.Host,
		Port:     mc.Port,
		Username: mc.Username,
		Password: mc.Password,
	})
}

func buildApp() (*app, error) {
	bc := config.AppConfig.Backend
	client, err := backend.NewClient(bc.BaseURL, bc.Timeout)
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}
	store := core.NewStore(client, backend.NewCache(bc.CacheTTL))

	screens := core.NewRegistry(core.DefaultScreens())
	if err := screens.LoadOverrides(config.AppConfig.Screens.File); err != nil {
		return nil, fmt.Errorf("loading screen overrides: %w", err)
	}

	sender, err := newMailSender()
	if err != nil {
		return nil, fmt.Errorf("creating mail sender: %w", err)
	}
	from, err := mailer.ParseFrom(config.AppConfig.Mail.From)
	if err != nil {
		return nil, fmt.Errorf("parsing mail.from: %w", err)
	}

	defaults := emailDefaults()
	branding := func() mailer.Branding {
		s, err := database.GetEmailSettings(defaults)
		if err != nil {
			logger.Error("Loading email settings, using defaults: %v", err)
		}
		return mailer.Branding{SiteURL: s.SiteURL, LogoURL: s.LogoURL}
	}
	notifier := core.NewNotifier(sender, from, branding, database.EmailLog{}, store)

	logger.Info("Backend API at %s (timeout %s, cache ttl %s), %d screens.", client.BaseURL(), bc.Timeout, bc.CacheTTL, len(screens.All()))
	return &app{store: store, screens: screens, notifier: notifier, defaults: defaults}, nil
}

// setupHandlers hands the services to the HTTP layer.
func (a *app) setupHandlers(sessionTTL time.Duration) {
	handlers.Setup(handlers.Deps{
		Store:         a.store,
		Screens:       a.screens,
		Notifier:      a.notifier,
		SessionTTL:    sessionTTL,
		CookieName:    config.AppConfig.Server.CookieName,
		EmailDefaults: a.defaults,
	})
}
