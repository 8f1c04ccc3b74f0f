package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-campus/internal/interface/http"
)

// IdentityModule wires the identity service routes.
// GET/POST /api/users, GET /api/users/search,
// GET/PATCH/DELETE /api/users/:id, POST /api/users/:id/disable,
// POST /api/users/:id/avatar, POST /api/email/send
type IdentityModule struct {
	Users *handlers.UserHandler
	Email *handlers.EmailHandler
}

func (m *IdentityModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("", m.Users.Create)
	users.GET("", m.Users.List)
	users.GET("/search", m.Users.Search)
	users.GET("/:id", m.Users.Get)
	users.PATCH("/:id", m.Users.Update)
	users.DELETE("/:id", m.Users.Delete)
	users.POST("/:id/disable", m.Users.Disable)
	users.POST("/:id/avatar", m.Users.UploadAvatar)

	if m.Email != nil {
		rg.POST("/email/send", m.Email.Send)
	}
}
