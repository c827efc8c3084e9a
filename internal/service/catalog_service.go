package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/covercraft/catalog_api/internal/models"
	"github.com/covercraft/catalog_api/internal/utils"
)

// BrandStore is the persistence surface the catalog service needs for brands.
type BrandStore interface {
	GetAll(ctx context.Context) ([]models.Brand, error)
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, brand *models.Brand) error
	CountSeries(ctx context.Context, brandID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// SeriesStore is the persistence surface the catalog service needs for series.
type SeriesStore interface {
	GetAll(ctx context.Context, brandID string) ([]models.Series, error)
	GetByID(ctx context.Context, id string) (*models.Series, error)
	ExistsByName(ctx context.Context, brandID, name string) (bool, error)
	Create(ctx context.Context, series *models.Series) error
	CountModels(ctx context.Context, seriesID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// PhoneModelStore is the persistence surface the catalog service needs for
// phone models.
type PhoneModelStore interface {
	GetAll(ctx context.Context, seriesID string) ([]models.PhoneModel, error)
	ExistsByName(ctx context.Context, seriesID, name string) (bool, error)
	Create(ctx context.Context, phoneModel *models.PhoneModel) error
	CountVariants(ctx context.Context, modelID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// CatalogService enforces the Brand -> Series -> PhoneModel hierarchy rules:
// parent references must exist on create, names are unique within their scope,
// and deleting a row with dependents is rejected with a conflict rather than
// cascading.
type CatalogService struct {
	brands      BrandStore
	series      SeriesStore
	phoneModels PhoneModelStore
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(brands BrandStore, series SeriesStore, phoneModels PhoneModelStore) *CatalogService {
	return &CatalogService{
		brands:      brands,
		series:      series,
		phoneModels: phoneModels,
	}
}

// ListBrands returns all brands sorted by name ascending. An empty catalog
// yields an empty slice, never an error.
func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.brands.GetAll(ctx)
}

// CreateBrand inserts a new brand with a globally unique name.
func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: brand name is required", utils.ErrValidation)
	}

	exists, err := s.brands.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: brand %q already exists", utils.ErrConflict, name)
	}

	brand := &models.Brand{Name: name}
	if err := s.brands.Create(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand removes a brand. Brands with series are rejected with a
// conflict; the FK constraint is the backstop against concurrent inserts.
func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	if err := requireID(id, "brand id"); err != nil {
		return err
	}

	n, err := s.brands.CountSeries(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: brand has %d series", utils.ErrConflict, n)
	}

	if err := s.brands.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: brand not found", utils.ErrNotFound)
		}
		return err
	}
	return nil
}

// ListSeries returns series sorted by name ascending with brands joined.
// A non-empty brandID restricts the result to that brand.
func (s *CatalogService) ListSeries(ctx context.Context, brandID string) ([]models.Series, error) {
	return s.series.GetAll(ctx, brandID)
}

// CreateSeries inserts a new series under an existing brand.
func (s *CatalogService) CreateSeries(ctx context.Context, name, brandID string) (*models.Series, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: series name is required", utils.ErrValidation)
	}
	if err := requireID(brandID, "brandId"); err != nil {
		return nil, err
	}

	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: brand does not exist", utils.ErrValidation)
		}
		return nil, err
	}

	exists, err := s.series.ExistsByName(ctx, brandID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: series %q already exists for this brand", utils.ErrConflict, name)
	}

	series := &models.Series{Name: name, BrandID: brandID}
	if err := s.series.Create(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

// DeleteSeries removes a series. Series with phone models are rejected.
func (s *CatalogService) DeleteSeries(ctx context.Context, id string) error {
	if err := requireID(id, "series id"); err != nil {
		return err
	}

	n, err := s.series.CountModels(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: series has %d phone models", utils.ErrConflict, n)
	}

	if err := s.series.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: series not found", utils.ErrNotFound)
		}
		return err
	}
	return nil
}

// ListModels returns phone models sorted by name ascending with series and
// brand joined. A non-empty seriesID restricts the result to that series.
func (s *CatalogService) ListModels(ctx context.Context, seriesID string) ([]models.PhoneModel, error) {
	return s.phoneModels.GetAll(ctx, seriesID)
}

// CreateModel inserts a new phone model under an existing series.
func (s *CatalogService) CreateModel(ctx context.Context, name, seriesID string) (*models.PhoneModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: model name is required", utils.ErrValidation)
	}
	if err := requireID(seriesID, "seriesId"); err != nil {
		return nil, err
	}

	if _, err := s.series.GetByID(ctx, seriesID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: series does not exist", utils.ErrValidation)
		}
		return nil, err
	}

	exists, err := s.phoneModels.ExistsByName(ctx, seriesID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: model %q already exists for this series", utils.ErrConflict, name)
	}

	phoneModel := &models.PhoneModel{Name: name, SeriesID: seriesID}
	if err := s.phoneModels.Create(ctx, phoneModel); err != nil {
		return nil, err
	}
	return phoneModel, nil
}

// DeleteModel removes a phone model. Models referenced by variants are
// rejected.
func (s *CatalogService) DeleteModel(ctx context.Context, id string) error {
	if err := requireID(id, "model id"); err != nil {
		return err
	}

	n, err := s.phoneModels.CountVariants(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: model is referenced by %d variants", utils.ErrConflict, n)
	}

	if err := s.phoneModels.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: model not found", utils.ErrNotFound)
		}
		return err
	}
	return nil
}

// requireID validates that id is a well-formed UUID before it reaches a
// uuid-typed query parameter.
func requireID(id, field string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", utils.ErrValidation, field)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s is not a valid id", utils.ErrValidation, field)
	}
	return nil
}
