package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

//go:embed templates/*.html
var tplFS embed.FS

var (
	replyTpl       = template.Must(template.ParseFS(tplFS, "templates/layout.html", "templates/reply.html"))
	newPropertyTpl = template.Must(template.ParseFS(tplFS, "templates/layout.html", "templates/new_property.html"))
)

const (
	SubjectInquiryReply = "DMCI: Inquiry Reply"
	SubjectNewProperty  = "DMCI : New Property Notification!"
)

// Branding holds the links every template needs.
type Branding struct {
	SiteURL string
	LogoURL string
}

// ReplyData fills the inquiry reply email.
type ReplyData struct {
	Branding
	FirstName string
	Message   string
}

// NewPropertyData fills the new-property broadcast email for one recipient.
type NewPropertyData struct {
	Branding
	Name        string
	Slogan      string
	Location    string
	Description string
	Email       string
}

type page struct {
	Preview string
	Year    int
	LogoURL string
	SiteURL string
}

// RenderReply renders the inquiry reply email.
func RenderReply(d ReplyData) (string, error) {
	data := struct {
		page
		FirstName string
		Message   string
	}{
		page:      newPage("Response to Your Inquiry", d.Branding),
		FirstName: d.FirstName,
		Message:   d.Message,
	}
	return execute(replyTpl, data)
}

// RenderNewProperty renders the broadcast email addressed to d.Email, including
// that recipient's unsubscribe link.
func RenderNewProperty(d NewPropertyData) (string, error) {
	data := struct {
		page
		Name           string
		Slogan         string
		Location       string
		Description    string
		UnsubscribeURL string
	}{
		page:           newPage("A New Property Has Been Added", d.Branding),
		Name:           d.Name,
		Slogan:         d.Slogan,
		Location:       d.Location,
		Description:    d.Description,
		UnsubscribeURL: UnsubscribeURL(d.SiteURL, d.Email),
	}
	return execute(newPropertyTpl, data)
}

// UnsubscribeURL builds the public site's unsubscribe link for email.
func UnsubscribeURL(siteURL, email string) string {
	return strings.TrimRight(siteURL, "/") + "/subscription?email=" + url.QueryEscape(email)
}

func newPage(preview string, b Branding) page {
	return page{
		Preview: preview,
		Year:    time.Now().Year(),
		LogoURL: b.LogoURL,
		SiteURL: strings.TrimRight(b.SiteURL, "/") + "/",
	}
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
