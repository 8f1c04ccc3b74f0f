package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-campus/internal/interface/http"
)

// HealthModule serves GET /health/ping at the engine root.
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule { return &HealthModule{Handler: h} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health/ping", m.Handler.Ping)
}

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
