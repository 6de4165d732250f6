package models

import (
	"time"

	"gorm.io/gorm"
)

// Review product review table
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // primary key
	ProductID uint           `gorm:"not null;index" json:"product_id"`  // reviewed product
	UserID    string         `gorm:"index" json:"user_id,omitempty"`    // external identity (empty for guests)
	UserName  string         `gorm:"type:varchar(200)" json:"user_name"` // reviewer display name
	Rating    int            `gorm:"not null" json:"rating"`            // 1..5
	Comment   string         `gorm:"type:text" json:"comment"`          // free text
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // created at
	UpdatedAt time.Time      `json:"updated_at"`                        // updated at
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // soft delete
}

// TableName sets the table name.
func (Review) TableName() string {
	return "reviews"
}
