package models

import (
	"time"

	"gorm.io/gorm"
)

// Product menu item table
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                              // primary key
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                 // category
	Name        string         `gorm:"not null" json:"name"`                              // display name
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                  // URL identifier
	Description string         `gorm:"type:text" json:"description"`                      // menu description
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // base price (USD)
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`                // product image
	IsAvailable bool           `gorm:"default:true;index" json:"is_available"`            // shown on menu
	IsPopular   bool           `gorm:"default:false" json:"is_popular"`                   // featured flag
	IsSpicy     bool           `gorm:"default:false" json:"is_spicy"`                     // spicy flag
	Variants    VariantList    `gorm:"type:json" json:"variants"`                         // size/customization options
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                 // menu position
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                           // created at
	UpdatedAt   time.Time      `json:"updated_at"`                                        // updated at
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                    // soft delete

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // category info
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
