package public

import (
	"github.com/pizzeria-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetRate returns the current USD to Bs exchange rate. Data is null when the
// upstream source is unreachable; clients simply skip the local total then.
func (h *Handler) GetRate(c *gin.Context) {
	rate := h.CurrencyService.FetchRate(c.Request.Context())
	if rate == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, gin.H{"rate": rate})
}
