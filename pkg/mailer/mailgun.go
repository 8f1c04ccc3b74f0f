package mailer

import (
	"context"
	"errors"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends email through the Mailgun HTTP API.
type Mailgun struct {
	Sender string
	client *mg.MailgunImpl
}

var _ Sender = (*Mailgun)(nil)

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Sender: sender, client: mg.NewMailgun(domain, apiKey)}
}

// WithAPIBase points the client at another API host, e.g. the EU region.
func (m *Mailgun) WithAPIBase(url string) *Mailgun {
	if url != "" {
		m.client.SetAPIBase(url)
	}
	return m
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if text == "" && html == "" {
		return errors.New("mailgun: empty body")
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	_, _, err := m.client.Send(ctx, msg)
	return err
}
