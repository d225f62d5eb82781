package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"estateadmin/logger"

	gomail "github.com/wneessen/go-mail"
)

// Message is one outgoing HTML email.
type Message struct {
	From    mail.Address
	To      []mail.Address
	Subject string
	HTML    string
}

// Sender hands messages to a transport. Delivery is best effort; a nil error means
// the transport accepted the message, nothing more.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig configures SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers messages over SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender validates cfg and returns a sender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return gomail.NewClient(s.cfg.Host, opts...)
}

// Send delivers msg, one SMTP session per call.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	logger.MailInfo("Sent %q to %s", msg.Subject, joinAddresses(msg.To))
	return nil
}

func buildMsg(msg *Message) (*gomail.Msg, error) {
	if msg == nil || len(msg.To) == 0 {
		return nil, errors.New("email has no recipients")
	}
	m := gomail.NewMsg()
	if msg.From.Name != "" {
		if err := m.FromFormat(msg.From.Name, msg.From.Address); err != nil {
			return nil, fmt.Errorf("set from: %w", err)
		}
	} else if err := m.From(msg.From.Address); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.Address)
	}
	if err := m.To(to...); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return m, nil
}

func joinAddresses(addrs []mail.Address) string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Address)
	}
	return strings.Join(out, ", ")
}

// ParseFrom parses a "Name <addr>" or bare address sender.
func ParseFrom(from string) (mail.Address, error) {
	a, err := mail.ParseAddress(strings.TrimSpace(from))
	if err != nil {
		return mail.Address{}, fmt.Errorf("parse sender address %q: %w", from, err)
	}
	return *a, nil
}

// MemorySender records messages instead of sending them. Used by tests and by
// the server when no SMTP host is configured.
type MemorySender struct {
	mu   sync.Mutex
	Sent []Message
	// Fail, when set, is consulted for every message; a non-nil result is
	// returned instead of recording it.
	Fail func(msg *Message) error
}

func (s *MemorySender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Fail != nil {
		if err := s.Fail(msg); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, *msg)
	logger.MailDebug("MemorySender: recorded %q to %s", msg.Subject, joinAddresses(msg.To))
	return nil
}

// Messages returns a copy of everything recorded so far.
func (s *MemorySender) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.Sent))
	copy(out, s.Sent)
	return out
}
