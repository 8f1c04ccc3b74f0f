package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

type EnrollmentHandler struct {
	Svc    *application.EnrollmentService
	Logger *logrus.Logger
}

func NewEnrollmentHandler(svc *application.EnrollmentService, logger *logrus.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{Svc: svc, Logger: logger}
}

type enrollRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,enrollrole"`
}

type bulkEnrollRequest struct {
	Enrollments []enrollRequest `json:"enrollments" binding:"required,min=1,max=500,dive"`
}

type changeEnrollmentRoleRequest struct {
	Role string `json:"role" binding:"required,enrollrole"`
}

type listEnrollmentsQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,enrollstatus"`
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.Svc.Enroll(c.Request.Context(), c.Param("id"), application.EnrollInput{UserID: req.UserID, Role: req.Role})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, e, "enrolled", nil)
}

func (h *EnrollmentHandler) BulkEnroll(c *gin.Context) {
	var req bulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := make([]application.EnrollInput, len(req.Enrollments))
	for i, r := range req.Enrollments {
		in[i] = application.EnrollInput{UserID: r.UserID, Role: r.Role}
	}
	out, err := h.Svc.BulkEnroll(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, out, "enrolled", gin.H{"count": len(out)})
}

func (h *EnrollmentHandler) ListByClass(c *gin.Context) {
	var q listEnrollmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.ListByClass(c.Request.Context(), c.Param("id"), application.EnrollmentFilter{
		Status: q.Status,
		Paging: application.Paging{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	writePage(c, page, "enrollments")
}

func (h *EnrollmentHandler) ListByUser(c *gin.Context) {
	var q listEnrollmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.ListByUser(c.Request.Context(), c.Param("id"), application.EnrollmentFilter{
		Status: q.Status,
		Paging: application.Paging{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	writePage(c, page, "enrollments")
}

func (h *EnrollmentHandler) ChangeRole(c *gin.Context) {
	var req changeEnrollmentRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.Svc.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, e, "enrollment updated", nil)
}

func (h *EnrollmentHandler) Drop(c *gin.Context) {
	if err := h.Svc.Drop(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"dropped": true}, "enrollment dropped", nil)
}
