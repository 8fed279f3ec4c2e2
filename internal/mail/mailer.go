package mail

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers plain-text mail. Failure surfaces to the caller; flows with
// half-applied state (password reset) compensate on error.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTP sends through one dialer configured at process start.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (s *SMTP) Send(_ context.Context, m Message) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to send email", err)
	}
	return nil
}
