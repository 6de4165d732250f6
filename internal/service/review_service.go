package service

import (
	"strings"

	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/repository"
)

const maxReviewCommentLen = 1000

// ReviewService product review business service
type ReviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a review service.
func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{repo: repo, productRepo: productRepo}
}

// ReviewInput create review input
type ReviewInput struct {
	ProductID uint
	UserID    string
	UserName  string
	Rating    int
	Comment   string
}

// ProductReviews a product's reviews with the aggregate.
type ProductReviews struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Average float64         `json:"average"`
}

// ListByProduct returns reviews plus the average rating.
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) (*ProductReviews, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	reviews, total, err := s.repo.ListByProduct(productID, page, pageSize)
	if err != nil {
		return nil, err
	}
	avg, _, err := s.repo.AverageRating(productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{Reviews: reviews, Total: total, Average: avg}, nil
}

// Create validates and stores a review. Ratings run 1 to 5.
func (s *ReviewService) Create(input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewInvalid
	}
	comment := strings.TrimSpace(input.Comment)
	if len(comment) > maxReviewCommentLen {
		return nil, ErrReviewInvalid
	}
	name := strings.TrimSpace(input.UserName)
	if name == "" {
		return nil, ErrReviewInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	review := models.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		UserName:  name,
		Rating:    input.Rating,
		Comment:   comment,
	}
	if err := s.repo.Create(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes a review (back office only).
func (s *ReviewService) Delete(id uint) error {
	return s.repo.Delete(id)
}
