package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/covercraft/catalog_api/internal/models"
)

// ProductRepository handles data access for cover products and their variants.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const variantColumns = `id, product_id, phone_model_id, price, quantity, image_url, is_active, created_at`

// CreateWithVariants inserts the product row and all variant rows in a single
// transaction. Either everything is persisted or nothing is.
func (r *ProductRepository) CreateWithVariants(ctx context.Context, product *models.Product) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const productQ = `
        INSERT INTO cover_products (id, name, description)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	product.ID = uuid.New().String()
	if err = tx.QueryRowxContext(ctx, productQ, product.ID, product.Name, product.Description).
		Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		return err
	}

	const variantQ = `
        INSERT INTO cover_variants (id, product_id, phone_model_id, price, quantity, image_url, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	for i := range product.Variants {
		v := &product.Variants[i]
		v.ID = uuid.New().String()
		v.ProductID = product.ID
		if err = tx.QueryRowxContext(ctx, variantQ,
			v.ID, v.ProductID, v.PhoneModelID, v.Price, v.Quantity, v.ImageURL, v.IsActive,
		).Scan(&v.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetAll returns all products ordered by creation time descending, each with
// its variants attached. The catalog is small enough that pagination is not
// needed here.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	const productQ = `
        SELECT id, name, description, created_at, updated_at
        FROM cover_products
        ORDER BY created_at DESC`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, productQ); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}

	variants, err := r.GetAllVariants(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string][]models.Variant, len(products))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
		if products[i].Variants == nil {
			products[i].Variants = []models.Variant{}
		}
	}
	return products, nil
}

// GetAllVariants returns every variant row, unfiltered.
func (r *ProductRepository) GetAllVariants(ctx context.Context) ([]models.Variant, error) {
	const q = `SELECT ` + variantColumns + ` FROM cover_variants ORDER BY created_at ASC`

	variants := []models.Variant{}
	if err := r.db.SelectContext(ctx, &variants, q); err != nil {
		return nil, err
	}
	return variants, nil
}
