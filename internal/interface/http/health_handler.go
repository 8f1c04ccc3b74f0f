package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB     Pinger
	Logger *logrus.Logger
}

func NewHealthHandler(db Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Logger: logger}
}

// Ping answers 200 {"status":"ok"} while the database responds, 503 otherwise.
func (h *HealthHandler) Ping(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("health ping failed")
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
