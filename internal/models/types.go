package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON is a free-form object column.
type JSON map[string]interface{}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// ProductVariant is one size/customization option of a product.
type ProductVariant struct {
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// VariantList is a JSON column holding product variants.
type VariantList []ProductVariant

// Value implements driver.Valuer.
func (v VariantList) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner.
func (v *VariantList) Scan(value interface{}) error {
	if value == nil {
		*v = VariantList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, v)
}

// OrderLineItem is one snapshotted cart line inside an order row. The
// snapshot is immutable once the order is written.
type OrderLineItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      Money    `json:"price"`
	TotalPrice *Money   `json:"total_price,omitempty"`
	Quantity   int      `json:"quantity"`
	Extras     []string `json:"extras,omitempty"`
}

// OrderItems is a JSON column holding the order's line-item snapshot.
type OrderItems []OrderLineItem

// Value implements driver.Valuer.
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = OrderItems{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, o)
}
