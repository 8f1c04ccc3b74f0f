package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	DisplayName string `json:"display_name" binding:"required,max=120"`
	Role        string `json:"role" binding:"omitempty,userrole"`
	Cohort      string `json:"cohort" binding:"omitempty,max=32"`
}

type updateUserRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=120"`
	Role        *string `json:"role" binding:"omitempty,userrole"`
	Status      *string `json:"status" binding:"omitempty,userstatus"`
	Cohort      *string `json:"cohort" binding:"omitempty,max=32"`
}

type listUsersQuery struct {
	pageQuery
	Role   string `form:"role" binding:"omitempty,userrole"`
	Status string `form:"status" binding:"omitempty,userstatus"`
	Cohort string `form:"cohort"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Cohort:      req.Cohort,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), application.UserFilter{
		Role:   q.Role,
		Status: q.Status,
		Cohort: q.Cohort,
		Paging: application.Paging{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	writePage(c, page, "users")
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateUserInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Status:      req.Status,
		Cohort:      req.Cohort,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Disable(c *gin.Context) {
	u, err := h.Svc.Disable(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user disabled", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

// UploadAvatar accepts a multipart "avatar" image up to 5MB.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+1024)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", map[string]string{"avatar": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusBadRequest, "avatar too large", map[string]string{"avatar": "must be at most 5MB"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error[any](c, http.StatusBadRequest, "avatar must be an image", map[string]string{"avatar": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.Param("id"), f, fh.Filename, contentType)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar uploaded", nil)
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
