package core

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"estateadmin/logger"
	"estateadmin/mailer"
	"estateadmin/models"
)

const (
	InquiriesEndpoint   = "inquiries"
	SubscribersEndpoint = "subscribers"
	StatusReplied       = "Replied"
)

// EmailLogWriter persists one email send attempt.
type EmailLogWriter interface {
	LogEmail(entry models.EmailLogEntry) (int64, error)
}

// Notifier renders and sends the dashboard's notification emails.
type Notifier struct {
	sender   mailer.Sender
	from     mail.Address
	branding func() mailer.Branding
	log      EmailLogWriter
	store    *Store
}

// NewNotifier builds a Notifier. branding is consulted on every send so admin
// changes apply immediately; log may be nil.
func NewNotifier(sender mailer.Sender, from mail.Address, branding func() mailer.Branding, log EmailLogWriter, store *Store) *Notifier {
	return &Notifier{sender: sender, from: from, branding: branding, log: log, store: store}
}

// ErrInvalidEmail marks a request whose recipient address cannot be used.
var ErrInvalidEmail = errors.New("invalid email address")

// SendInquiryReply renders and sends the inquiry reply email.
func (n *Notifier) SendInquiryReply(ctx context.Context, req models.InquiryReplyRequest) error {
	to, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, req.Email)
	}
	html, err := mailer.RenderReply(mailer.ReplyData{
		Branding:  n.branding(),
		FirstName: req.FirstName,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, models.EmailKindInquiryReply, to.Address, mailer.SubjectInquiryReply, html)
}

// ReplyToInquiry marks the inquiry Replied on the backend and then emails the
// reply. The email is only sent once the status change has succeeded.
func (n *Notifier) ReplyToInquiry(ctx context.Context, sess models.Session, id string, req models.InquiryReplyRequest) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, req.Email)
	}
	if err := n.store.ChangeStatus(ctx, sess, InquiriesEndpoint, id, StatusReplied); err != nil {
		return err
	}
	return n.SendInquiryReply(ctx, req)
}

// UniqueRecipients returns the subscribers' addresses without duplicates, in order
// of first occurrence. Blank addresses are dropped.
func UniqueRecipients(subs []models.Subscriber) []string {
	seen := make(map[string]bool, len(subs))
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		e := strings.TrimSpace(s.Email)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// PropertyEmailFields pulls the broadcast fields out of the created property record.
func PropertyEmailFields(property models.Row) (name, slogan, location, description string) {
	return property.String("property.name"),
		property.String("property.slogan"),
		property.String("property_location"),
		property.String("property_description")
}

// BroadcastProperty sends the new-property email to every unique subscriber, each
// with their own unsubscribe link. A failed recipient does not stop the others.
func (n *Notifier) BroadcastProperty(ctx context.Context, req models.PropertyBroadcastRequest) (models.BroadcastResult, error) {
	recipients := UniqueRecipients(req.Subscribers)
	res := models.BroadcastResult{Recipients: recipients}
	if len(recipients) == 0 {
		logger.MailInfo("BroadcastProperty: no subscribers, nothing to send.")
		return res, nil
	}

	name, slogan, location, description := PropertyEmailFields(req.Property)
	branding := n.branding()
	var firstErr error
	for _, email := range recipients {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		html, err := mailer.RenderNewProperty(mailer.NewPropertyData{
			Branding:    branding,
			Name:        name,
			Slogan:      slogan,
			Location:    location,
			Description: description,
			Email:       email,
		})
		if err == nil {
			err = n.send(ctx, models.EmailKindPropertyBroadcast, email, mailer.SubjectNewProperty, html)
		}
		if err != nil {
			res.Failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		res.Sent++
	}
	logger.MailInfo("BroadcastProperty: %q sent to %d of %d subscribers.", name, res.Sent, len(recipients))
	if res.Sent == 0 && firstErr != nil {
		return res, firstErr
	}
	return res, nil
}

// PublishProperty creates a property and, once the backend has accepted it,
// broadcasts it to the newsletter subscribers. Broadcast failures are logged and
// reported in the result but do not undo the creation.
func (n *Notifier) PublishProperty(ctx context.Context, sess models.Session, screen Screen, fields map[string]string, files []FilePart) (MutationResult, models.BroadcastResult, error) {
	created, err := n.store.Create(ctx, sess, screen, fields, files)
	if err != nil {
		return created, models.BroadcastResult{}, err
	}
	n.store.Invalidate(MasterPlanEndpoint)

	rows, err := n.store.API().List(ctx, sess, SubscribersEndpoint)
	if err != nil {
		logger.Error("PublishProperty: fetching subscribers failed, skipping broadcast: %v", err)
		return created, models.BroadcastResult{}, nil
	}
	subs := make([]models.Subscriber, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, models.Subscriber{Email: r.String("email")})
	}
	if created.Record == nil {
		logger.Warn("PublishProperty: backend returned no record, skipping broadcast.")
		return created, models.BroadcastResult{}, nil
	}
	result, err := n.BroadcastProperty(ctx, models.PropertyBroadcastRequest{Property: created.Record, Subscribers: subs})
	if err != nil {
		logger.Error("PublishProperty: broadcast failed: %v", err)
	}
	return created, result, nil
}

// SendTest sends a sample reply email to verify the SMTP settings.
func (n *Notifier) SendTest(ctx context.Context, to string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, to)
	}
	html, err := mailer.RenderReply(mailer.ReplyData{
		Branding:  n.branding(),
		FirstName: "Admin",
		Message:   "This is a test message from the estate admin dashboard.",
	})
	if err != nil {
		return err
	}
	return n.send(ctx, models.EmailKindTest, addr.Address, mailer.SubjectInquiryReply, html)
}

func (n *Notifier) send(ctx context.Context, kind, to, subject, html string) error {
	err := n.sender.Send(ctx, &mailer.Message{
		From:    n.from,
		To:      []mail.Address{{Address: to}},
		Subject: subject,
		HTML:    html,
	})
	entry := models.EmailLogEntry{Kind: kind, Recipient: to, Subject: subject, Status: "sent"}
	if err != nil {
		entry.Status = "failed"
		entry.Error = err.Error()
		logger.MailError("Sending %s to %s failed: %v", kind, to, err)
	}
	if n.log != nil {
		if _, logErr := n.log.LogEmail(entry); logErr != nil {
			logger.Error("Recording email log entry for %s failed: %v", to, logErr)
		}
	}
	return err
}
