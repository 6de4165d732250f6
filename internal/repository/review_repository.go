package repository

import (
	"github.com/pizzeria-next/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository review data access interface
type ReviewRepository interface {
	ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error)
	Create(review *models.Review) error
	Delete(id uint) error
	AverageRating(productID uint) (float64, int64, error)
}

// GormReviewRepository GORM implementation
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a review repository.
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ListByProduct lists reviews for a product, newest first.
func (r *GormReviewRepository) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := r.db.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)
	if err := query.Order("id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Create inserts a review.
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Delete removes a review.
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// AverageRating returns the mean rating and count for a product.
func (r *GormReviewRepository) AverageRating(productID uint) (float64, int64, error) {
	var count int64
	if err := r.db.Model(&models.Review{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}
	var avg float64
	if err := r.db.Model(&models.Review{}).Where("product_id = ?", productID).
		Select("AVG(rating)").Scan(&avg).Error; err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
