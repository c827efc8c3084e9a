package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/covercraft/catalog_api/internal/models"
)

// SeriesRepository handles data access for series.
type SeriesRepository struct {
	db *sqlx.DB
}

// NewSeriesRepository creates a new SeriesRepository.
func NewSeriesRepository(db *sqlx.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

const seriesColumns = `
	s.id, s.name, s.brand_id, s.created_at,
	b.name AS brand_name, b.created_at AS brand_created_at`

// GetAll returns series ordered by name ascending with the brand joined.
// When brandID is an empty string the filter is ignored.
func (r *SeriesRepository) GetAll(ctx context.Context, brandID string) ([]models.Series, error) {
	const q = `
        SELECT ` + seriesColumns + `
        FROM series s
        JOIN brands b ON b.id = s.brand_id
        WHERE ($1 = '' OR s.brand_id::text = $1)
        ORDER BY s.name ASC`

	series := []models.Series{}
	if err := r.db.SelectContext(ctx, &series, q, brandID); err != nil {
		return nil, err
	}
	for i := range series {
		series[i].AttachBrand()
	}
	return series, nil
}

// GetByID returns a single series by id with the brand joined.
func (r *SeriesRepository) GetByID(ctx context.Context, id string) (*models.Series, error) {
	const q = `
        SELECT ` + seriesColumns + `
        FROM series s
        JOIN brands b ON b.id = s.brand_id
        WHERE s.id = $1
        LIMIT 1`

	var s models.Series
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	s.AttachBrand()
	return &s, nil
}

// ExistsByName reports whether the brand already has a series with this name.
func (r *SeriesRepository) ExistsByName(ctx context.Context, brandID, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM series WHERE brand_id = $1 AND name = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, brandID, name); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new series and loads the joined brand columns.
func (r *SeriesRepository) Create(ctx context.Context, series *models.Series) error {
	const q = `INSERT INTO series (id, name, brand_id) VALUES ($1, $2, $3) RETURNING created_at`

	series.ID = uuid.New().String()
	if err := r.db.QueryRowxContext(ctx, q, series.ID, series.Name, series.BrandID).Scan(&series.CreatedAt); err != nil {
		return err
	}

	const brandQ = `SELECT name, created_at FROM brands WHERE id = $1`
	if err := r.db.QueryRowxContext(ctx, brandQ, series.BrandID).Scan(&series.BrandName, &series.BrandCreatedAt); err != nil {
		return err
	}
	series.AttachBrand()
	return nil
}

// CountModels returns the number of phone models referencing a series.
func (r *SeriesRepository) CountModels(ctx context.Context, seriesID string) (int, error) {
	const q = `SELECT COUNT(1) FROM phone_models WHERE series_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, q, seriesID); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a series by id. Returns sql.ErrNoRows if the id is absent.
func (r *SeriesRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM series WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
