package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/mailer"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

type EmailHandler struct {
	Pub     application.JobPublisher
	Logger  *logrus.Logger
	Enabled bool
}

func NewEmailHandler(pub application.JobPublisher, logger *logrus.Logger, enabled bool) *EmailHandler {
	return &EmailHandler{Pub: pub, Logger: logger, Enabled: enabled}
}

type sendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Template string         `json:"template"` // welcome, enrollment_created
	Data     map[string]any `json:"data"`
	Subject  string         `json:"subject"` // required if no template
	Text     string         `json:"text"`
	HTML     string         `json:"html"`
}

// Send enqueues an email job to RabbitMQ.
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job := mailer.EmailJob{To: req.To, Template: req.Template, Data: req.Data, Subject: req.Subject, Text: req.Text, HTML: req.HTML}
	if err := job.Validate(); err != nil {
		response.Error[any](c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), mailer.ErrBadJob.Error()+": "), nil)
		return
	}

	if !h.Enabled || h.Pub == nil {
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
		return
	}

	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("failed to publish email job")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "email enqueued", nil)
}
