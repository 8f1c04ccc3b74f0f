package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

type ClassHandler struct {
	Svc    *application.ClassService
	Logger *logrus.Logger
}

func NewClassHandler(svc *application.ClassService, logger *logrus.Logger) *ClassHandler {
	return &ClassHandler{Svc: svc, Logger: logger}
}

type createClassRequest struct {
	SemesterID string `json:"semester_id" binding:"required"`
	Code       string `json:"code" binding:"required,max=32"`
	Name       string `json:"name" binding:"omitempty,max=200"`
	LecturerID string `json:"lecturer_id"`
}

type updateClassRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=200"`
	LecturerID *string `json:"lecturer_id"`
}

type listClassesQuery struct {
	pageQuery
	SemesterID string `form:"semester_id"`
	Status     string `form:"status" binding:"omitempty,oneof=active disabled"`
}

func (h *ClassHandler) Create(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cl, err := h.Svc.Create(c.Request.Context(), application.CreateClassInput{
		SemesterID: req.SemesterID,
		Code:       req.Code,
		Name:       req.Name,
		LecturerID: req.LecturerID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, cl, "class created", nil)
}

func (h *ClassHandler) Get(c *gin.Context) {
	cl, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cl, "class", nil)
}

func (h *ClassHandler) List(c *gin.Context) {
	var q listClassesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), application.ClassFilter{
		SemesterID: q.SemesterID,
		Status:     q.Status,
		Paging:     application.Paging{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	writePage(c, page, "classes")
}

func (h *ClassHandler) Update(c *gin.Context) {
	var req updateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cl, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateClassInput{
		Name:       req.Name,
		LecturerID: req.LecturerID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cl, "class updated", nil)
}

func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"disabled": true}, "class disabled", nil)
}
