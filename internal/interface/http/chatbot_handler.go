package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

type ChatbotHandler struct {
	Svc    *application.ChatbotService
	Logger *logrus.Logger
}

func NewChatbotHandler(svc *application.ChatbotService, logger *logrus.Logger) *ChatbotHandler {
	return &ChatbotHandler{Svc: svc, Logger: logger}
}

type chatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=4000"`
}

type askRequest struct {
	Message string     `json:"message" binding:"required,max=4000"`
	ClassID string     `json:"class_id"`
	History []chatTurn `json:"history" binding:"omitempty,max=20,dive"`
}

func (h *ChatbotHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	history := make([]application.ChatMessage, len(req.History))
	for i, t := range req.History {
		history[i] = application.ChatMessage{Role: t.Role, Content: t.Content}
	}
	ans, err := h.Svc.Ask(c.Request.Context(), application.AskInput{Message: req.Message, ClassID: req.ClassID, History: history})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ans, "answer", nil)
}
