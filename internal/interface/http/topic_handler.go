package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

type TopicHandler struct {
	Svc    *application.TopicService
	Logger *logrus.Logger
}

func NewTopicHandler(svc *application.TopicService, logger *logrus.Logger) *TopicHandler {
	return &TopicHandler{Svc: svc, Logger: logger}
}

type createTopicRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=20000"`
}

type updateTopicRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=20000"`
	Position    *int    `json:"position" binding:"omitempty,gte=0"`
}

func (h *TopicHandler) Create(c *gin.Context) {
	var req createTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), c.Param("id"), application.CreateTopicInput{Title: req.Title, Description: req.Description})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "topic created", nil)
}

func (h *TopicHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "topic", nil)
}

func (h *TopicHandler) ListByClass(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.ListByClass(c.Request.Context(), c.Param("id"), application.Paging{Page: q.Page, PageSize: q.PageSize})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	writePage(c, page, "topics")
}

func (h *TopicHandler) Update(c *gin.Context) {
	var req updateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateTopicInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "topic updated", nil)
}

func (h *TopicHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "topic deleted", nil)
}

func (h *TopicHandler) Clear(c *gin.Context) {
	n, err := h.Svc.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": n}, "topics cleared", nil)
}
