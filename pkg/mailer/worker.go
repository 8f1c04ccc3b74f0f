package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-ddd-campus/pkg/mailer/templates"
)

// Sender delivers one rendered email. *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Acknowledger is the ack side of a queue delivery (amqp091.Delivery).
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Worker renders queued jobs and hands them to a Sender.
type Worker struct {
	Sender   Sender
	Branding map[string]any
	Timeout  time.Duration
	Logger   *logrus.Logger
}

func NewWorker(sender Sender, branding map[string]any, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Branding: branding, Timeout: 15 * time.Second, Logger: logger}
}

// Handle processes one delivery. Malformed jobs are dropped, send failures
// are requeued, everything else is acked.
func (w *Worker) Handle(ctx context.Context, body []byte, ack Acknowledger) error {
	job, err := w.decode(body)
	if err != nil {
		_ = ack.Nack(false, false)
		return err
	}
	subject, text, html, err := w.Prepare(job)
	if err != nil {
		_ = ack.Nack(false, false)
		return err
	}
	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		_ = ack.Nack(false, true)
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	}
	return ack.Ack(false)
}

// Prepare returns the subject and bodies of job, rendering its template if set.
func (w *Worker) Prepare(job EmailJob) (subject, text, html string, err error) {
	if err := job.Validate(); err != nil {
		return "", "", "", err
	}
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	data := mailtpl.ApplyDefaults(job.Data, map[string]any{"Email": job.To, "RecipientEmail": job.To})
	data = mailtpl.ApplyDefaults(data, w.Branding)
	subject, text, html, err = mailtpl.Render(job.Template, data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %w", ErrBadJob, err)
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}

func (w *Worker) decode(body []byte) (EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("%w: %w", ErrBadJob, err)
	}
	return job, job.Validate()
}
