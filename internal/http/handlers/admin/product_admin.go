package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/pizzeria-next/internal/http/handlers/shared"
	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/repository"
	"github.com/pizzeria-next/internal/service"

	"github.com/gin-gonic/gin"
)

type productRequest struct {
	CategoryID  uint               `json:"category_id" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Slug        string             `json:"slug" binding:"required"`
	Description string             `json:"description"`
	Price       models.Money       `json:"price"`
	ImageURL    string             `json:"image_url"`
	IsAvailable *bool              `json:"is_available"`
	IsPopular   bool               `json:"is_popular"`
	IsSpicy     bool               `json:"is_spicy"`
	Variants    models.VariantList `json:"variants"`
	SortOrder   int                `json:"sort_order"`
}

func (r productRequest) toInput() service.ProductInput {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return service.ProductInput{
		CategoryID:  r.CategoryID,
		Name:        strings.TrimSpace(r.Name),
		Slug:        strings.TrimSpace(r.Slug),
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    strings.TrimSpace(r.ImageURL),
		IsAvailable: available,
		IsPopular:   r.IsPopular,
		IsSpicy:     r.IsSpicy,
		Variants:    r.Variants,
		SortOrder:   r.SortOrder,
	}
}

// ListProducts returns the full catalog, including unavailable items.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		PageSize: pageSize,
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 64); err == nil {
		filter.CategoryID = uint(categoryID)
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct returns one product by id for editing.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, svcErr := h.ProductService.Get(uint(id))
	if svcErr != nil {
		respondProductError(c, svcErr)
		return
	}
	response.Success(c, product)
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct edits a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, svcErr := h.ProductService.Update(uint(id), req.toInput())
	if svcErr != nil {
		respondProductError(c, svcErr)
		return
	}
	response.Success(c, product)
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// SetProductAvailability toggles whether a product shows on the menu.
func (h *Handler) SetProductAvailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, svcErr := h.ProductService.SetAvailability(uint(id), *req.IsAvailable)
	if svcErr != nil {
		respondProductError(c, svcErr)
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.ProductService.Delete(uint(id)); err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, nil)
}
