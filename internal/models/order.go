package models

import (
	"time"

	"gorm.io/gorm"
)

// Order order table. Items are an immutable snapshot of the cart at
// checkout time; only the status column is written after creation.
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // primary key
	OrderNo       string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // order number
	UserID        string         `gorm:"index" json:"user_id,omitempty"`                             // external identity (empty for guests)
	CustomerName  string         `gorm:"type:varchar(200)" json:"customer_name"`                     // customer display name
	Items         OrderItems     `gorm:"type:json;not null" json:"items"`                            // line-item snapshot
	Total         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`         // total (USD)
	TotalLocal    *Money         `gorm:"type:decimal(20,2)" json:"total_local,omitempty"`            // total in local currency, when a rate was available
	DeliveryType  string         `gorm:"type:varchar(20);not null;default:'pickup'" json:"delivery_type"` // pickup / delivery
	Address       string         `gorm:"type:text" json:"address"`                                   // delivery address
	Phone         string         `gorm:"type:varchar(40)" json:"phone"`                              // contact phone
	PaymentMethod string         `gorm:"type:varchar(60)" json:"payment_method"`                     // payment method label
	Status        string         `gorm:"index;not null;default:'pending'" json:"status"`             // order status
	Locale        string         `gorm:"type:varchar(10)" json:"locale,omitempty"`                   // customer language
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                    // created at
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                    // updated at
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                             // soft delete
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
