package models

import "time"

// PhoneModel is a specific device within a Series (e.g. iPhone 12 Pro).
// Series (with its Brand) is eagerly joined on list/create responses.
type PhoneModel struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SeriesID  string    `db:"series_id" json:"seriesId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Series *Series `db:"-" json:"series,omitempty"`

	// Flattened join columns, populated by the repository.
	SeriesName      string    `db:"series_name" json:"-"`
	SeriesCreatedAt time.Time `db:"series_created_at" json:"-"`
	BrandID         string    `db:"brand_id" json:"-"`
	BrandName       string    `db:"brand_name" json:"-"`
	BrandCreatedAt  time.Time `db:"brand_created_at" json:"-"`
}

// AttachSeries builds the nested Series->Brand from the flattened join columns.
func (m *PhoneModel) AttachSeries() {
	m.Series = &Series{
		ID:        m.SeriesID,
		Name:      m.SeriesName,
		BrandID:   m.BrandID,
		CreatedAt: m.SeriesCreatedAt,
		Brand: &Brand{
			ID:        m.BrandID,
			Name:      m.BrandName,
			CreatedAt: m.BrandCreatedAt,
		},
	}
}
