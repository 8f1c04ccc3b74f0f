package mailer

import (
	"errors"
	"fmt"

	mailtpl "github.com/oksasatya/go-ddd-campus/pkg/mailer/templates"
)

var ErrBadJob = errors.New("bad email job")

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject plus Text/HTML must be set; a
// Subject next to a Template overrides the rendered one.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Validate reports why a job cannot be sent, wrapping ErrBadJob.
func (j EmailJob) Validate() error {
	switch {
	case j.To == "":
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	case j.Template != "" && !mailtpl.Known(j.Template):
		return fmt.Errorf("%w: unknown template %q", ErrBadJob, j.Template)
	case j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")):
		return fmt.Errorf("%w: no template and no body", ErrBadJob)
	}
	return nil
}
