package models

import "time"

// Series is a product line within a Brand (e.g. iPhone, Galaxy S).
// Brand is eagerly joined on list/create responses.
type Series struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BrandID   string    `db:"brand_id" json:"brandId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Brand *Brand `db:"-" json:"brand,omitempty"`

	// Flattened join columns, populated by the repository.
	BrandName      string    `db:"brand_name" json:"-"`
	BrandCreatedAt time.Time `db:"brand_created_at" json:"-"`
}

// AttachBrand builds the nested Brand from the flattened join columns.
func (s *Series) AttachBrand() {
	s.Brand = &Brand{
		ID:        s.BrandID,
		Name:      s.BrandName,
		CreatedAt: s.BrandCreatedAt,
	}
}
