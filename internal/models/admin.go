package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin back-office account table
type Admin struct {
	ID          uint           `gorm:"primarykey" json:"id"`               // primary key
	Username    string         `gorm:"uniqueIndex;not null" json:"username"` // login name
	Password    string         `gorm:"not null" json:"-"`                  // bcrypt hash
	LastLoginAt *time.Time     `json:"last_login_at"`                      // last successful login
	CreatedAt   time.Time      `json:"created_at"`                         // created at
	UpdatedAt   time.Time      `json:"updated_at"`                         // updated at
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                     // soft delete
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}
