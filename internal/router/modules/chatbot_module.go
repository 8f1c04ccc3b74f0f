package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-campus/internal/interface/http"
)

type ChatbotModule struct {
	Handler *handlers.ChatbotHandler
}

func NewChatbotModule(h *handlers.ChatbotHandler) *ChatbotModule {
	return &ChatbotModule{Handler: h}
}

func (m *ChatbotModule) Register(rg *gin.RouterGroup) {
	rg.POST("/chatbot/ask", m.Handler.Ask)
}
