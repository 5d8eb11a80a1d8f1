package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para las notificaciones de perfil.
type Sender interface {
	SendProfileVerified(ctx context.Context, toEmail string, name string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

// ErrDisabled se devuelve cuando no hay SMTP configurado.
var ErrDisabled = errors.New("email sender disabled")

func (s *disabledSender) SendProfileVerified(_ context.Context, _ string, _ string) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return errors.Join(ErrDisabled, errors.New(s.reason))
}
