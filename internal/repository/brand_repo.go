package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/covercraft/catalog_api/internal/models"
)

// BrandRepository handles data access for brands.
type BrandRepository struct {
	db *sqlx.DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *sqlx.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// GetAll returns all brands ordered by name ascending (case-sensitive).
func (r *BrandRepository) GetAll(ctx context.Context) ([]models.Brand, error) {
	const q = `SELECT id, name, created_at FROM brands ORDER BY name ASC`

	brands := []models.Brand{}
	if err := r.db.SelectContext(ctx, &brands, q); err != nil {
		return nil, err
	}
	return brands, nil
}

// GetByID returns a single brand by id.
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	const q = `SELECT id, name, created_at FROM brands WHERE id = $1 LIMIT 1`

	var b models.Brand
	if err := r.db.GetContext(ctx, &b, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &b, nil
}

// ExistsByName reports whether a brand with the given name already exists.
func (r *BrandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM brands WHERE name = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, name); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new brand. The id is generated application-side.
func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	const q = `INSERT INTO brands (id, name) VALUES ($1, $2) RETURNING created_at`

	brand.ID = uuid.New().String()
	return r.db.QueryRowxContext(ctx, q, brand.ID, brand.Name).Scan(&brand.CreatedAt)
}

// CountSeries returns the number of series referencing a brand.
func (r *BrandRepository) CountSeries(ctx context.Context, brandID string) (int, error) {
	const q = `SELECT COUNT(1) FROM series WHERE brand_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, q, brandID); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a brand by id. Returns sql.ErrNoRows if the id is absent.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM brands WHERE id = $1`

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
