package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covercraft/catalog_api/internal/models"
	"github.com/covercraft/catalog_api/internal/utils"
)

type mockProductStore struct {
	products  []models.Product
	createErr error
	created   *models.Product
}

func (m *mockProductStore) CreateWithVariants(_ context.Context, product *models.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	product.ID = uuid.NewString()
	for i := range product.Variants {
		product.Variants[i].ID = uuid.NewString()
		product.Variants[i].ProductID = product.ID
	}
	m.created = product
	m.products = append(m.products, *product)
	return nil
}

func (m *mockProductStore) GetAll(_ context.Context) ([]models.Product, error) {
	return m.products, nil
}

func (m *mockProductStore) GetAllVariants(_ context.Context) ([]models.Variant, error) {
	var out []models.Variant
	for _, p := range m.products {
		out = append(out, p.Variants...)
	}
	return out, nil
}

type mockProductCache struct {
	cached      []models.Product
	getErr      error
	gets        int
	sets        int
	invalidates int
}

func (m *mockProductCache) GetProducts(_ context.Context) ([]models.Product, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cached, nil
}

func (m *mockProductCache) SetProducts(_ context.Context, products []models.Product) error {
	m.sets++
	m.cached = products
	return nil
}

func (m *mockProductCache) InvalidateProducts(_ context.Context) error {
	m.invalidates++
	m.cached = nil
	return nil
}

func validProductRequest(modelIDs ...string) *CreateProductRequest {
	req := &CreateProductRequest{
		Name:        "Leather Case",
		Description: "Full-grain leather cover",
	}
	for _, id := range modelIDs {
		req.Variants = append(req.Variants, VariantRequest{
			PhoneModelID: id,
			Price:        decimal.NewFromFloat(19.99),
			Quantity:     10,
			ImageURL:     "https://cdn.test/products/a.jpg",
			IsActive:     true,
		})
	}
	return req
}

func TestCreateProduct_ValidationFailures(t *testing.T) {
	modelID := uuid.NewString()
	checker := newMockPhoneModelStore(&models.PhoneModel{ID: modelID, Name: "iPhone 12"})

	tests := []struct {
		name   string
		mutate func(*CreateProductRequest)
	}{
		{"empty name", func(r *CreateProductRequest) { r.Name = "  " }},
		{"empty description", func(r *CreateProductRequest) { r.Description = "" }},
		{"no variants", func(r *CreateProductRequest) { r.Variants = nil }},
		{"missing model id", func(r *CreateProductRequest) { r.Variants[0].PhoneModelID = "" }},
		{"price below minimum", func(r *CreateProductRequest) { r.Variants[0].Price = decimal.Zero }},
		{"negative quantity", func(r *CreateProductRequest) { r.Variants[0].Quantity = -1 }},
		{"missing image", func(r *CreateProductRequest) { r.Variants[0].ImageURL = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockProductStore{}
			svc := NewProductService(store, checker, nil)

			req := validProductRequest(modelID)
			tt.mutate(req)

			_, err := svc.CreateProduct(context.Background(), req)
			require.ErrorIs(t, err, utils.ErrValidation)
			assert.Nil(t, store.created, "nothing must be persisted on validation failure")
		})
	}
}

func TestCreateProduct_UnknownPhoneModel(t *testing.T) {
	checker := newMockPhoneModelStore()
	store := &mockProductStore{}
	svc := NewProductService(store, checker, nil)

	_, err := svc.CreateProduct(context.Background(), validProductRequest(uuid.NewString()))
	require.ErrorIs(t, err, utils.ErrValidation)
	assert.Nil(t, store.created)
}

func TestCreateProduct_Success(t *testing.T) {
	modelA := uuid.NewString()
	modelB := uuid.NewString()
	checker := newMockPhoneModelStore(
		&models.PhoneModel{ID: modelA, Name: "iPhone 12"},
		&models.PhoneModel{ID: modelB, Name: "iPhone 12 Pro"},
	)
	store := &mockProductStore{}
	cache := &mockProductCache{cached: []models.Product{{Name: "stale"}}}
	svc := NewProductService(store, checker, cache)

	product, err := svc.CreateProduct(context.Background(), validProductRequest(modelA, modelB))
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.NotEmpty(t, product.ID)
	require.Len(t, product.Variants, 2)
	assert.Equal(t, product.ID, product.Variants[0].ProductID)
	assert.Equal(t, modelA, product.Variants[0].PhoneModelID)
	assert.Equal(t, 1, cache.invalidates, "stale list cache must be dropped after create")
}

func TestCreateProduct_StoreErrorPropagates(t *testing.T) {
	modelID := uuid.NewString()
	checker := newMockPhoneModelStore(&models.PhoneModel{ID: modelID, Name: "iPhone 12"})
	store := &mockProductStore{createErr: errors.New("deadlock detected")}
	cache := &mockProductCache{}
	svc := NewProductService(store, checker, cache)

	_, err := svc.CreateProduct(context.Background(), validProductRequest(modelID))
	require.Error(t, err)
	assert.Zero(t, cache.invalidates, "cache must stay untouched when the write fails")
}

func TestListProducts_CacheHit(t *testing.T) {
	store := &mockProductStore{products: []models.Product{{Name: "from store"}}}
	cache := &mockProductCache{cached: []models.Product{{Name: "from cache"}}}
	svc := NewProductService(store, newMockPhoneModelStore(), cache)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "from cache", products[0].Name)
	assert.Zero(t, cache.sets)
}

func TestListProducts_CacheMissPopulates(t *testing.T) {
	store := &mockProductStore{products: []models.Product{{Name: "Leather Case"}}}
	cache := &mockProductCache{}
	svc := NewProductService(store, newMockPhoneModelStore(), cache)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, "Leather Case", cache.cached[0].Name)
}

func TestListProducts_CacheErrorFallsThrough(t *testing.T) {
	store := &mockProductStore{products: []models.Product{{Name: "Leather Case"}}}
	cache := &mockProductCache{getErr: errors.New("connection refused")}
	svc := NewProductService(store, newMockPhoneModelStore(), cache)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestListProducts_NoCache(t *testing.T) {
	store := &mockProductStore{products: []models.Product{{Name: "Leather Case"}}}
	svc := NewProductService(store, newMockPhoneModelStore(), nil)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
