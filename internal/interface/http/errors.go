package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
	"github.com/oksasatya/go-ddd-campus/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
	"github.com/oksasatya/go-ddd-campus/pkg/validation"
)

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repo.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, repo.ErrDuplicate),
		errors.Is(err, repo.ErrConcurrencyConflict),
		errors.Is(err, repo.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the failure envelope for err. Internal errors are logged
// and their detail is not exposed.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": middleware.RequestID(c),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, status, "internal server error", nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

func badRequest(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pageQuery is bound from ?page=&page_size=.
type pageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1,max=1000000"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func pageMeta[T any](p *repo.PaginatedResult[T]) gin.H {
	return gin.H{
		"pageIndex":       p.PageIndex,
		"pageSize":        p.PageSize,
		"totalCount":      p.TotalCount,
		"totalPages":      p.TotalPages,
		"hasPreviousPage": p.HasPreviousPage(),
		"hasNextPage":     p.HasNextPage(),
	}
}

func writePage[T any](c *gin.Context, p *repo.PaginatedResult[T], message string) {
	response.Success(c, http.StatusOK, p.Items, message, pageMeta(p))
}
