package admin

import (
	"github.com/pizzeria-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Upload stores a menu image and returns its public path. The scene query
// parameter picks the subdirectory (product, category, common).
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	path, svcErr := h.UploadService.SaveFile(file, c.DefaultQuery("scene", "common"))
	if svcErr != nil {
		respondUploadError(c, svcErr)
		return
	}
	response.Success(c, gin.H{"url": path})
}
