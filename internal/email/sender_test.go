package email

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDisabledSenderReturnsErrDisabled(t *testing.T) {
	s := NewDisabledSender("smtp not configured")
	err := s.SendProfileVerified(context.Background(), "a@b.com", "Ana")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if !strings.Contains(err.Error(), "smtp not configured") {
		t.Fatalf("expected reason in error, got %v", err)
	}
}

func TestNewSMTPSenderValidates(t *testing.T) {
	if _, err := NewSMTPSender("", 25, "", "", "from@x.com", "", false); err == nil {
		t.Fatalf("expected error for empty host")
	}
	if _, err := NewSMTPSender("smtp.x.com", 25, "", "", " ", "", false); err == nil {
		t.Fatalf("expected error for empty from")
	}
	s, err := NewSMTPSender("smtp.x.com", 0, "", "", "from@x.com", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.port != 587 {
		t.Fatalf("expected default port 587, got %d", s.port)
	}
}

func TestSMTPSenderRequiresRecipient(t *testing.T) {
	s, _ := NewSMTPSender("smtp.x.com", 25, "", "", "from@x.com", "", false)
	if err := s.SendProfileVerified(context.Background(), "  ", "Ana"); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("from@x.com", "Profile Hub", "to@y.com", "Hi", "body")
	if !strings.HasPrefix(msg, "From: Profile Hub <from@x.com>\r\n") {
		t.Fatalf("unexpected from header: %q", msg)
	}
	if !strings.Contains(msg, "To: to@y.com\r\n") || !strings.HasSuffix(msg, "\r\n\r\nbody") {
		t.Fatalf("unexpected message: %q", msg)
	}
}
