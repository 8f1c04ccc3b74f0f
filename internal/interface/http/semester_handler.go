package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

type SemesterHandler struct {
	Svc    *application.SemesterService
	Logger *logrus.Logger
}

func NewSemesterHandler(svc *application.SemesterService, logger *logrus.Logger) *SemesterHandler {
	return &SemesterHandler{Svc: svc, Logger: logger}
}

type createSemesterRequest struct {
	Code      string    `json:"code" binding:"required,max=16"`
	Term      string    `json:"term" binding:"required,term"`
	Year      int       `json:"year" binding:"required,gte=2000,lte=2100"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
}

type updateSemesterRequest struct {
	Status    *string    `json:"status" binding:"omitempty,semesterstatus"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type listSemestersQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,semesterstatus"`
	Year   int    `form:"year" binding:"omitempty,gte=2000,lte=2100"`
}

func (h *SemesterHandler) Create(c *gin.Context) {
	var req createSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Svc.Create(c.Request.Context(), application.CreateSemesterInput{
		Code:      req.Code,
		Term:      req.Term,
		Year:      req.Year,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, s, "semester created", nil)
}

func (h *SemesterHandler) Get(c *gin.Context) {
	s, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "semester", nil)
}

func (h *SemesterHandler) List(c *gin.Context) {
	var q listSemestersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), application.SemesterFilter{
		Status: q.Status,
		Year:   q.Year,
		Paging: application.Paging{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	writePage(c, page, "semesters")
}

func (h *SemesterHandler) Update(c *gin.Context) {
	var req updateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateSemesterInput{
		Status:    req.Status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "semester updated", nil)
}

func (h *SemesterHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"disabled": true}, "semester disabled", nil)
}

func (h *SemesterHandler) Purge(c *gin.Context) {
	if err := h.Svc.Purge(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"purged": true}, "semester purged", nil)
}
