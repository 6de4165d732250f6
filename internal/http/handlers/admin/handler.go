package admin

import (
	"strconv"

	handlershared "github.com/pizzeria-next/internal/http/handlers/shared"
	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler back-office API handlers
type Handler struct {
	*provider.Container
}

// New creates the admin handler set.
func New(container *provider.Container) *Handler {
	return &Handler{Container: container}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
