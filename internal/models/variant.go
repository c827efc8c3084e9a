package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant specializes a Product to fit one PhoneModel, with its own price,
// stock and image. ProductID is immutable after creation; variants have no
// individual update or delete surface.
type Variant struct {
	ID           string          `db:"id" json:"id"`
	ProductID    string          `db:"product_id" json:"productId"`
	PhoneModelID string          `db:"phone_model_id" json:"phoneModelId"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Quantity     int             `db:"quantity" json:"quantity"`
	ImageURL     string          `db:"image_url" json:"imageUrl"`
	IsActive     bool            `db:"is_active" json:"isActive"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}
