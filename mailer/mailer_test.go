package mailer

import (
	"context"
	"errors"
	"net/mail"
	"testing"
)

func TestParseFrom(t *testing.T) {
	a, err := ParseFrom(" DMCI Homes <no-reply@dmci.example.com> ")
	if err != nil {
		t.Fatalf("ParseFrom returned error: %v", err)
	}
	if a.Name != "DMCI Homes" || a.Address != "no-reply@dmci.example.com" {
		t.Fatalf("address = %+v", a)
	}
	if _, err := ParseFrom("not an address"); err == nil {
		t.Fatal("ParseFrom accepted an invalid address")
	}
}

func TestNewSMTPSender(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{}); err == nil {
		t.Fatal("NewSMTPSender accepted an empty host")
	}
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"})
	if err != nil {
		t.Fatalf("NewSMTPSender returned error: %v", err)
	}
	if s.cfg.Port != 587 {
		t.Fatalf("port = %d, want 587", s.cfg.Port)
	}
}

func TestBuildMsg(t *testing.T) {
	_, err := buildMsg(&Message{})
	if err == nil {
		t.Fatal("buildMsg accepted a message with no recipients")
	}
	_, err = buildMsg(&Message{
		From:    mail.Address{Name: "DMCI", Address: "no-reply@dmci.example.com"},
		To:      []mail.Address{{Address: "a@example.com"}},
		Subject: SubjectInquiryReply,
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("buildMsg returned error: %v", err)
	}
}

func TestMemorySender(t *testing.T) {
	s := &MemorySender{Fail: func(msg *Message) error {
		if msg.To[0].Address == "bad@example.com" {
			return errors.New("rejected")
		}
		return nil
	}}
	ctx := context.Background()
	if err := s.Send(ctx, &Message{To: []mail.Address{{Address: "a@example.com"}}, Subject: "one"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Send(ctx, &Message{To: []mail.Address{{Address: "bad@example.com"}}}); err == nil {
		t.Fatal("Fail hook was not consulted")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Send(cancelled, &Message{To: []mail.Address{{Address: "b@example.com"}}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Subject != "one" {
		t.Fatalf("messages = %+v", msgs)
	}
}
