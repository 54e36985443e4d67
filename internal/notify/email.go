package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"barber_backend/internal/models"

	"gopkg.in/gomail.v2"
)

type EmailOptions struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	To        string
}

// EmailNotifier отправляет письмо о новой записи через SMTP
type EmailNotifier struct {
	opts   EmailOptions
	sender gomail.Sender
	dialer *gomail.Dialer
}

func NewEmailNotifier(opts EmailOptions) *EmailNotifier {
	return &EmailNotifier{
		opts:   opts,
		dialer: gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
	}
}

// WithSender подменяет SMTP-отправку (используется в тестах)
func (e *EmailNotifier) WithSender(s gomail.Sender) *EmailNotifier {
	cp := *e
	cp.sender = s
	return &cp
}

func (e *EmailNotifier) Channel() string { return "email" }

func (e *EmailNotifier) NotifyNewVisit(_ context.Context, visit *models.Visit) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.opts.FromEmail, e.opts.FromName)
	m.SetHeader("To", e.opts.To)
	m.SetHeader("Subject", fmt.Sprintf("Новая запись: %s, %s", visit.Name, visit.Phone))

	text := FormatVisitMessage(visit)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", "<p>"+strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")+"</p>")

	var err error
	if e.sender != nil {
		err = gomail.Send(e.sender, m)
	} else {
		err = e.dialer.DialAndSend(m)
	}
	if err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	return nil
}
