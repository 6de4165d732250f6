package models

import (
	"time"

	"gorm.io/gorm"
)

// Category menu category table
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // primary key
	Name      string         `gorm:"not null" json:"name"`              // display name
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`  // URL identifier
	ImageURL  string         `gorm:"type:varchar(500)" json:"image_url"` // header image
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // menu position
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // created at
	UpdatedAt time.Time      `json:"updated_at"`                        // updated at
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // soft delete

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"` // products in category
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}
