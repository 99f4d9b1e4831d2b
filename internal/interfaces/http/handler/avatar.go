package handler

import (
	"io"

	"github.com/d8nd8/python-final-diplom/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AvatarFormField is the multipart field carrying the uploaded image
const AvatarFormField = "avatar"

// AvatarHandler accepts avatar uploads and reports their processing state
type AvatarHandler struct {
	BaseHandler
	avatarService *identity.AvatarService
	maxSize       int64
}

// NewAvatarHandler creates a new avatar handler.
// maxSize bounds how much of the upload is read; the service rejects anything larger.
func NewAvatarHandler(avatarService *identity.AvatarService, maxSize int64) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService, maxSize: maxSize}
}

// Upload godoc
// @ID           uploadAvatar
// @Summary      Upload avatar
// @Description  Queue an image for resizing into avatar variants; poll the returned task
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar formData file true "JPEG or PNG image"
// @Success      202 {object} APIResponse[identity.AvatarTaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/avatar [post]
func (h *AvatarHandler) Upload(c *gin.Context) {
	file, err := c.FormFile(AvatarFormField)
	if err != nil {
		h.BadRequest(c, "avatar file is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		h.BadRequest(c, "avatar file is unreadable")
		return
	}
	defer f.Close()

	// One byte over the limit is enough for the size check to fail.
	data, err := io.ReadAll(io.LimitReader(f, h.maxSize+1))
	if err != nil {
		h.BadRequest(c, "avatar file is unreadable")
		return
	}

	userID, _ := currentUser(c)
	task, err := h.avatarService.Upload(c.Request.Context(), userID, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, task)
}

// Status godoc
// @ID           getAvatarTask
// @Summary      Avatar task status
// @Tags         users
// @Produce      json
// @Param        task_id path string true "Task ID"
// @Success      200 {object} APIResponse[identity.AvatarTaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/avatar/{task_id} [get]
func (h *AvatarHandler) Status(c *gin.Context) {
	userID, _ := currentUser(c)
	task, err := h.avatarService.Status(c.Request.Context(), userID, c.Param("task_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}
