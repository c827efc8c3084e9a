package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/covercraft/catalog_api/internal/models"
)

// PhoneModelRepository handles data access for phone models.
type PhoneModelRepository struct {
	db *sqlx.DB
}

// NewPhoneModelRepository creates a new PhoneModelRepository.
func NewPhoneModelRepository(db *sqlx.DB) *PhoneModelRepository {
	return &PhoneModelRepository{db: db}
}

const phoneModelColumns = `
	m.id, m.name, m.series_id, m.created_at,
	s.name AS series_name, s.created_at AS series_created_at, s.brand_id,
	b.name AS brand_name, b.created_at AS brand_created_at`

// GetAll returns phone models ordered by name ascending with series and brand
// joined. When seriesID is an empty string the filter is ignored.
func (r *PhoneModelRepository) GetAll(ctx context.Context, seriesID string) ([]models.PhoneModel, error) {
	const q = `
        SELECT ` + phoneModelColumns + `
        FROM phone_models m
        JOIN series s ON s.id = m.series_id
        JOIN brands b ON b.id = s.brand_id
        WHERE ($1 = '' OR m.series_id::text = $1)
        ORDER BY m.name ASC`

	phoneModels := []models.PhoneModel{}
	if err := r.db.SelectContext(ctx, &phoneModels, q, seriesID); err != nil {
		return nil, err
	}
	for i := range phoneModels {
		phoneModels[i].AttachSeries()
	}
	return phoneModels, nil
}

// GetByID returns a single phone model by id with series and brand joined.
func (r *PhoneModelRepository) GetByID(ctx context.Context, id string) (*models.PhoneModel, error) {
	const q = `
        SELECT ` + phoneModelColumns + `
        FROM phone_models m
        JOIN series s ON s.id = m.series_id
        JOIN brands b ON b.id = s.brand_id
        WHERE m.id = $1
        LIMIT 1`

	var m models.PhoneModel
	if err := r.db.GetContext(ctx, &m, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	m.AttachSeries()
	return &m, nil
}

// ExistsByName reports whether the series already has a model with this name.
func (r *PhoneModelRepository) ExistsByName(ctx context.Context, seriesID, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM phone_models WHERE series_id = $1 AND name = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, seriesID, name); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsAll reports whether every given id references an existing phone model.
func (r *PhoneModelRepository) ExistsAll(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	const q = `SELECT COUNT(1) FROM phone_models WHERE id::text = ANY($1)`

	var n int
	if err := r.db.GetContext(ctx, &n, q, pq.Array(ids)); err != nil {
		return false, err
	}
	return n == len(ids), nil
}

// Create inserts a new phone model and reloads it with joins attached.
func (r *PhoneModelRepository) Create(ctx context.Context, phoneModel *models.PhoneModel) error {
	const q = `INSERT INTO phone_models (id, name, series_id) VALUES ($1, $2, $3) RETURNING created_at`

	phoneModel.ID = uuid.New().String()
	if err := r.db.QueryRowxContext(ctx, q, phoneModel.ID, phoneModel.Name, phoneModel.SeriesID).Scan(&phoneModel.CreatedAt); err != nil {
		return err
	}

	created, err := r.GetByID(ctx, phoneModel.ID)
	if err != nil {
		return err
	}
	*phoneModel = *created
	return nil
}

// CountVariants returns the number of cover variants referencing a model.
func (r *PhoneModelRepository) CountVariants(ctx context.Context, modelID string) (int, error) {
	const q = `SELECT COUNT(1) FROM cover_variants WHERE phone_model_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, q, modelID); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a phone model by id. Returns sql.ErrNoRows if the id is absent.
func (r *PhoneModelRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM phone_models WHERE id = $1`

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
