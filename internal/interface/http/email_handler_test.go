package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "github.com/oksasatya/go-ddd-campus/internal/interface/http"
	"github.com/oksasatya/go-ddd-campus/pkg/mailer"
)

type publisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *publisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func sendEmail(t *testing.T, h *handlers.EmailHandler, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := gin.New()
	r.POST("/api/email/send", h.Send)
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/email/send", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestEmailSend(t *testing.T) {
	pub := &publisher{}
	h := handlers.NewEmailHandler(pub, nil, true)

	w, env := sendEmail(t, h, map[string]any{"to": "ada@x.io", "template": "welcome", "data": map[string]any{"Name": "Ada"}})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"enqueued":true}`, string(env.Data))
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, "welcome", pub.jobs[0].Template)
	assert.Equal(t, "ada@x.io", pub.jobs[0].To)

	w, _ = sendEmail(t, h, map[string]any{"to": "ada@x.io", "template": "invoice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = sendEmail(t, h, map[string]any{"to": "ada@x.io", "subject": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = sendEmail(t, h, map[string]any{"to": "nope", "subject": "hi", "text": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, pub.jobs, 1)
}

func TestEmailSendDisabledAndFailing(t *testing.T) {
	w, env := sendEmail(t, handlers.NewEmailHandler(nil, nil, true), map[string]any{"to": "ada@x.io", "subject": "hi", "text": "x"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"enqueued":false,"disabled":true}`, string(env.Data))

	h := handlers.NewEmailHandler(&publisher{err: errors.New("channel closed")}, nil, true)
	w, env = sendEmail(t, h, map[string]any{"to": "ada@x.io", "subject": "hi", "text": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}
