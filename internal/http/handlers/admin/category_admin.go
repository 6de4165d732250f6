package admin

import (
	"strconv"
	"strings"

	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/service"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	ImageURL  string `json:"image_url"`
	SortOrder int    `json:"sort_order"`
}

func (r categoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:      strings.TrimSpace(r.Name),
		Slug:      strings.TrimSpace(r.Slug),
		ImageURL:  strings.TrimSpace(r.ImageURL),
		SortOrder: r.SortOrder,
	}
}

// ListCategories returns every category including empty ones.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory adds a menu category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory edits a menu category.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, svcErr := h.CategoryService.Update(uint(id), req.toInput())
	if svcErr != nil {
		respondCategoryError(c, svcErr)
		return
	}
	response.Success(c, category)
}

// DeleteCategory removes a category that holds no products.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CategoryService.Delete(uint(id)); err != nil {
		respondCategoryError(c, err)
		return
	}
	response.Success(c, nil)
}
