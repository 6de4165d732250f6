package admin

import (
	"github.com/pizzeria-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DeleteReview removes a review from the back office.
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(id); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, nil)
}
