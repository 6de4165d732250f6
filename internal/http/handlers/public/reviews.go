package public

import (
	"strconv"
	"strings"

	handlershared "github.com/pizzeria-next/internal/http/handlers/shared"
	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) reviewProduct(c *gin.Context) (*models.Product, bool) {
	product, err := h.ProductService.GetBySlug(strings.TrimSpace(c.Param("slug")))
	if err != nil {
		respondMenuError(c, err)
		return nil, false
	}
	return product, true
}

// ListReviews returns a product's reviews with the aggregate rating.
func (h *Handler) ListReviews(c *gin.Context) {
	product, ok := h.reviewProduct(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	reviews, err := h.ReviewService.ListByProduct(product.ID, page, pageSize)
	if err != nil {
		respondReviewError(c, err)
		return
	}
	response.Success(c, reviews)
}

type createReviewRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
}

// CreateReview stores a product review.
func (h *Handler) CreateReview(c *gin.Context) {
	product, ok := h.reviewProduct(c)
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.review_invalid", nil)
		return
	}

	review, err := h.ReviewService.Create(service.ReviewInput{
		ProductID: product.ID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}
	response.Success(c, review)
}
