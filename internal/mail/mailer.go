package mail

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("mail delivery not configured")

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single message. Implementations must not retry on their own.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Disabled is used when no SMTP server is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrNotConfigured }
