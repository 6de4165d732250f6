package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile customer profile table, keyed by the external identity.
type Profile struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"` // external identity
	FullName  string         `gorm:"type:varchar(200)" json:"full_name"`    // display name
	Phone     string         `gorm:"type:varchar(40)" json:"phone"`         // contact phone
	Address   string         `gorm:"type:text" json:"address"`              // default address
	CreatedAt time.Time      `json:"created_at"`                            // created at
	UpdatedAt time.Time      `json:"updated_at"`                            // updated at
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                        // soft delete
}

// TableName sets the table name.
func (Profile) TableName() string {
	return "profiles"
}
