package mailer

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	Dial() (gomail.SendCloser, error)
}

// SMTP sends through a mail server.
type SMTP struct {
	dialer dialer
}

type SMTPOption func(*gomail.Dialer)

// WithLoginAuth authenticates with AUTH LOGIN instead of PLAIN.
func WithLoginAuth() SMTPOption {
	return func(d *gomail.Dialer) {
		d.Auth = &loginAuth{username: d.Username, password: d.Password}
	}
}

func NewSMTP(host, port, user, password string, opts ...SMTPOption) (*SMTP, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("smtp port %q: %w", port, err)
	}
	d := gomail.NewDialer(host, p, user, password)
	for _, opt := range opts {
		opt(d)
	}
	return &SMTP{dialer: d}, nil
}

func (s *SMTP) Send(ctx context.Context, msg *Message) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	conn, err := s.dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()
	if err := gomail.Send(conn, m); err != nil {
		log.Error(err, "failed to send email", "to", msg.To)
		return nil, err
	}
	log.Info("sent reply", "transport", "smtp", "to", msg.To)
	return map[string]any{"to": msg.To}, nil
}
