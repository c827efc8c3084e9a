package models

import "time"

// Product is a sellable cover design. It is independent of any one Brand or
// Series; only its variants are tied to devices, via PhoneModel references.
// Variants are always created together with the product in one transaction.
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Variants []Variant `db:"-" json:"variants"`
}
