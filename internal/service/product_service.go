package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/covercraft/catalog_api/internal/models"
	"github.com/covercraft/catalog_api/internal/utils"
)

// MinVariantPrice is the lowest accepted variant price.
var MinVariantPrice = decimal.NewFromFloat(0.01)

// ProductStore is the persistence surface for cover products.
type ProductStore interface {
	CreateWithVariants(ctx context.Context, product *models.Product) error
	GetAll(ctx context.Context) ([]models.Product, error)
	GetAllVariants(ctx context.Context) ([]models.Variant, error)
}

// ModelChecker verifies that phone model references exist.
type ModelChecker interface {
	ExistsAll(ctx context.Context, ids []string) (bool, error)
}

// ProductListCache caches the full product listing.
type ProductListCache interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	SetProducts(ctx context.Context, products []models.Product) error
	InvalidateProducts(ctx context.Context) error
}

// ProductService handles cover product creation and listing. Creation is
// atomic: the product row and all variant rows commit together or not at all.
type ProductService struct {
	products ProductStore
	checker  ModelChecker
	cache    ProductListCache
}

// NewProductService constructs a ProductService. cache may be nil, in which
// case every list goes to the store.
func NewProductService(products ProductStore, checker ModelChecker, cache ProductListCache) *ProductService {
	return &ProductService{
		products: products,
		checker:  checker,
		cache:    cache,
	}
}

// CreateProductRequest represents the request to create a product with its
// variants.
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Variants    []VariantRequest `json:"variants" binding:"required"`
}

// VariantRequest is one variant entry of a product creation request. ImageURL
// must already be a resolved storage URL; pending uploads are the workflow's
// responsibility.
type VariantRequest struct {
	PhoneModelID string          `json:"phoneModelId" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	ImageURL     string          `json:"imageUrl"`
	IsActive     bool            `json:"isActive"`
}

// Validate checks a single variant entry against the catalog rules.
func (v *VariantRequest) Validate() error {
	if strings.TrimSpace(v.PhoneModelID) == "" {
		return fmt.Errorf("%w: variant phoneModelId is required", utils.ErrValidation)
	}
	if v.Price.LessThan(MinVariantPrice) {
		return fmt.Errorf("%w: variant price must be at least %s", utils.ErrValidation, MinVariantPrice)
	}
	if v.Quantity < 0 {
		return fmt.Errorf("%w: variant quantity must not be negative", utils.ErrValidation)
	}
	if strings.TrimSpace(v.ImageURL) == "" {
		return fmt.Errorf("%w: variant imageUrl is required", utils.ErrValidation)
	}
	return nil
}

// CreateProduct validates the request and persists the product together with
// all its variants in one transaction.
func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", utils.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: product description is required", utils.ErrValidation)
	}
	if len(req.Variants) == 0 {
		return nil, fmt.Errorf("%w: at least one variant is required", utils.ErrValidation)
	}

	modelIDs := make([]string, 0, len(req.Variants))
	for i := range req.Variants {
		if err := req.Variants[i].Validate(); err != nil {
			return nil, err
		}
		modelIDs = append(modelIDs, req.Variants[i].PhoneModelID)
	}

	ok, err := s.checker.ExistsAll(ctx, modelIDs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: one or more phone models do not exist", utils.ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Variants:    make([]models.Variant, len(req.Variants)),
	}
	for i, v := range req.Variants {
		product.Variants[i] = models.Variant{
			PhoneModelID: v.PhoneModelID,
			Price:        v.Price,
			Quantity:     v.Quantity,
			ImageURL:     v.ImageURL,
			IsActive:     v.IsActive,
		}
	}

	if err := s.products.CreateWithVariants(ctx, product); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProducts(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate product list cache")
		}
	}

	return product, nil
}

// ListProducts returns every product with variants attached, newest first.
// Served from the list cache when warm.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProducts(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("product list cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			log.Warn().Err(err).Msg("failed to populate product list cache")
		}
	}
	return products, nil
}

// ListVariants returns all variant rows, unfiltered.
func (s *ProductService) ListVariants(ctx context.Context) ([]models.Variant, error) {
	return s.products.GetAllVariants(ctx)
}
