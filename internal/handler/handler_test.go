package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covercraft/catalog_api/internal/models"
	"github.com/covercraft/catalog_api/internal/service"
	"github.com/covercraft/catalog_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock stores backing real services ---

type fakeBrandStore struct {
	brands      map[string]*models.Brand
	seriesCount map[string]int
}

func newFakeBrandStore(brands ...*models.Brand) *fakeBrandStore {
	f := &fakeBrandStore{brands: map[string]*models.Brand{}, seriesCount: map[string]int{}}
	for _, b := range brands {
		f.brands[b.ID] = b
	}
	return f
}

func (f *fakeBrandStore) GetAll(_ context.Context) ([]models.Brand, error) {
	out := []models.Brand{}
	for _, b := range f.brands {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBrandStore) GetByID(_ context.Context, id string) (*models.Brand, error) {
	b, ok := f.brands[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (f *fakeBrandStore) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, b := range f.brands {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBrandStore) Create(_ context.Context, brand *models.Brand) error {
	brand.ID = uuid.NewString()
	f.brands[brand.ID] = brand
	return nil
}

func (f *fakeBrandStore) CountSeries(_ context.Context, brandID string) (int, error) {
	return f.seriesCount[brandID], nil
}

func (f *fakeBrandStore) Delete(_ context.Context, id string) error {
	if _, ok := f.brands[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.brands, id)
	return nil
}

type fakeSeriesStore struct {
	series map[string]*models.Series
}

func newFakeSeriesStore(series ...*models.Series) *fakeSeriesStore {
	f := &fakeSeriesStore{series: map[string]*models.Series{}}
	for _, s := range series {
		f.series[s.ID] = s
	}
	return f
}

func (f *fakeSeriesStore) GetAll(_ context.Context, brandID string) ([]models.Series, error) {
	out := []models.Series{}
	for _, s := range f.series {
		if brandID == "" || s.BrandID == brandID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSeriesStore) GetByID(_ context.Context, id string) (*models.Series, error) {
	s, ok := f.series[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeSeriesStore) ExistsByName(_ context.Context, brandID, name string) (bool, error) {
	for _, s := range f.series {
		if s.BrandID == brandID && s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSeriesStore) Create(_ context.Context, series *models.Series) error {
	series.ID = uuid.NewString()
	f.series[series.ID] = series
	return nil
}

func (f *fakeSeriesStore) CountModels(_ context.Context, _ string) (int, error) { return 0, nil }

func (f *fakeSeriesStore) Delete(_ context.Context, id string) error {
	if _, ok := f.series[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.series, id)
	return nil
}

type fakeModelStore struct {
	phoneModels map[string]*models.PhoneModel
}

func newFakeModelStore(phoneModels ...*models.PhoneModel) *fakeModelStore {
	f := &fakeModelStore{phoneModels: map[string]*models.PhoneModel{}}
	for _, pm := range phoneModels {
		f.phoneModels[pm.ID] = pm
	}
	return f
}

func (f *fakeModelStore) GetAll(_ context.Context, seriesID string) ([]models.PhoneModel, error) {
	out := []models.PhoneModel{}
	for _, pm := range f.phoneModels {
		if seriesID == "" || pm.SeriesID == seriesID {
			out = append(out, *pm)
		}
	}
	return out, nil
}

func (f *fakeModelStore) ExistsByName(_ context.Context, seriesID, name string) (bool, error) {
	for _, pm := range f.phoneModels {
		if pm.SeriesID == seriesID && pm.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeModelStore) Create(_ context.Context, phoneModel *models.PhoneModel) error {
	phoneModel.ID = uuid.NewString()
	f.phoneModels[phoneModel.ID] = phoneModel
	return nil
}

func (f *fakeModelStore) CountVariants(_ context.Context, _ string) (int, error) { return 0, nil }

func (f *fakeModelStore) Delete(_ context.Context, id string) error {
	if _, ok := f.phoneModels[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.phoneModels, id)
	return nil
}

func (f *fakeModelStore) ExistsAll(_ context.Context, ids []string) (bool, error) {
	for _, id := range ids {
		if _, ok := f.phoneModels[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

type fakeProductStore struct {
	products []models.Product
}

func (f *fakeProductStore) CreateWithVariants(_ context.Context, product *models.Product) error {
	product.ID = uuid.NewString()
	for i := range product.Variants {
		product.Variants[i].ID = uuid.NewString()
		product.Variants[i].ProductID = product.ID
	}
	f.products = append(f.products, *product)
	return nil
}

func (f *fakeProductStore) GetAll(_ context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeProductStore) GetAllVariants(_ context.Context) ([]models.Variant, error) {
	var out []models.Variant
	for _, p := range f.products {
		out = append(out, p.Variants...)
	}
	return out, nil
}

type fakeUploader struct {
	uploads []string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, namespace, filename, _ string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, filename)
	return "https://cdn.test/" + namespace + "/" + filename, nil
}

// --- Fixture ---

type fixture struct {
	router   *gin.Engine
	brands   *fakeBrandStore
	series   *fakeSeriesStore
	phones   *fakeModelStore
	products *fakeProductStore
	uploader *fakeUploader
}

func newFixture() *fixture {
	f := &fixture{
		brands:   newFakeBrandStore(),
		series:   newFakeSeriesStore(),
		phones:   newFakeModelStore(),
		products: &fakeProductStore{},
		uploader: &fakeUploader{},
	}

	catalog := service.NewCatalogService(f.brands, f.series, f.phones)
	productSvc := service.NewProductService(f.products, f.phones, nil)

	brandH := NewBrandHandler(catalog)
	seriesH := NewSeriesHandler(catalog)
	modelH := NewModelHandler(catalog)
	productH := NewProductHandler(productSvc, f.uploader)
	uploadH := NewUploadHandler(f.uploader)

	r := gin.New()
	v1 := r.Group("/v1")
	{
		v1.GET("/brands", brandH.ListBrands)
		v1.POST("/brands", brandH.CreateBrand)
		v1.DELETE("/brands", brandH.DeleteBrand)

		v1.GET("/series", seriesH.ListSeries)
		v1.GET("/series/:id", seriesH.ListSeriesByBrand)
		v1.POST("/series", seriesH.CreateSeries)
		v1.DELETE("/series", seriesH.DeleteSeries)

		v1.GET("/models", modelH.ListModels)
		v1.GET("/models/:id", modelH.ListModelsBySeries)
		v1.POST("/models", modelH.CreateModel)
		v1.DELETE("/models", modelH.DeleteModel)

		v1.GET("/products", productH.ListProducts)
		v1.POST("/products", productH.CreateProduct)
		v1.POST("/products/compose", productH.Compose)
		v1.GET("/variants", productH.ListVariants)

		v1.POST("/uploads", uploadH.Upload)
	}
	f.router = r
	return f
}

func (f *fixture) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "error")
	return body["error"]
}

// --- Brand endpoints ---

func TestCreateBrand_Endpoint(t *testing.T) {
	f := newFixture()

	w := f.doJSON(t, http.MethodPost, "/v1/brands", gin.H{"name": "Apple"})
	require.Equal(t, http.StatusCreated, w.Code)

	var brand models.Brand
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &brand))
	assert.Equal(t, "Apple", brand.Name)
	assert.NotEmpty(t, brand.ID)
}

func TestCreateBrand_MissingName(t *testing.T) {
	f := newFixture()

	w := f.doJSON(t, http.MethodPost, "/v1/brands", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errorBody(t, w)
}

func TestCreateBrand_Duplicate(t *testing.T) {
	f := newFixture()
	f.brands.brands["b1"] = &models.Brand{ID: "b1", Name: "Apple"}

	w := f.doJSON(t, http.MethodPost, "/v1/brands", gin.H{"name": "Apple"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorBody(t, w), "already exists")
}

func TestDeleteBrand_Endpoint(t *testing.T) {
	f := newFixture()
	id := uuid.NewString()
	f.brands.brands[id] = &models.Brand{ID: id, Name: "Apple"}

	w := f.doJSON(t, http.MethodDelete, "/v1/brands", gin.H{"id": id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestDeleteBrand_NotFoundEndpoint(t *testing.T) {
	f := newFixture()

	w := f.doJSON(t, http.MethodDelete, "/v1/brands", gin.H{"id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBrand_WithSeriesConflict(t *testing.T) {
	f := newFixture()
	id := uuid.NewString()
	f.brands.brands[id] = &models.Brand{ID: id, Name: "Apple"}
	f.brands.seriesCount[id] = 1

	w := f.doJSON(t, http.MethodDelete, "/v1/brands", gin.H{"id": id})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Series endpoints ---

func TestCreateSeries_BrandMissing(t *testing.T) {
	f := newFixture()

	w := f.doJSON(t, http.MethodPost, "/v1/series", gin.H{"name": "iPhone", "brandId": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "does not exist")
}

func TestListSeriesByBrand_Endpoint(t *testing.T) {
	f := newFixture()
	brandID := uuid.NewString()
	f.series.series["s1"] = &models.Series{ID: "s1", Name: "iPhone", BrandID: brandID}
	f.series.series["s2"] = &models.Series{ID: "s2", Name: "Galaxy S", BrandID: uuid.NewString()}

	w := f.doJSON(t, http.MethodGet, "/v1/series/"+brandID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var series []models.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	require.Len(t, series, 1)
	assert.Equal(t, "iPhone", series[0].Name)
}

// --- Product endpoints ---

func TestCreateProduct_Endpoint(t *testing.T) {
	f := newFixture()
	modelID := uuid.NewString()
	f.phones.phoneModels[modelID] = &models.PhoneModel{ID: modelID, Name: "iPhone 12"}

	w := f.doJSON(t, http.MethodPost, "/v1/products", gin.H{
		"name":        "Leather Case",
		"description": "Full-grain leather cover",
		"variants": []gin.H{{
			"phoneModelId": modelID,
			"price":        19.99,
			"quantity":     10,
			"imageUrl":     "https://cdn.test/products/a.jpg",
			"isActive":     true,
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.NotEmpty(t, product.ID)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, modelID, product.Variants[0].PhoneModelID)
}

func TestCreateProduct_UnknownModelEndpoint(t *testing.T) {
	f := newFixture()

	w := f.doJSON(t, http.MethodPost, "/v1/products", gin.H{
		"name":        "Leather Case",
		"description": "Full-grain leather cover",
		"variants": []gin.H{{
			"phoneModelId": uuid.NewString(),
			"price":        19.99,
			"imageUrl":     "https://cdn.test/products/a.jpg",
		}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.products.products)
}

// --- Compose endpoint ---

func composeForm(t *testing.T, modelID string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	require.NoError(t, mw.WriteField("name", "Leather Case"))
	require.NoError(t, mw.WriteField("description", "Full-grain leather cover"))
	require.NoError(t, mw.WriteField("brandId", uuid.NewString()))
	require.NoError(t, mw.WriteField("seriesId", uuid.NewString()))

	variants, err := json.Marshal([]gin.H{{
		"phoneModelId": modelID,
		"price":        24.99,
		"quantity":     5,
	}})
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("variants", string(variants)))

	if withImage {
		fw, err := mw.CreateFormFile("image_"+modelID, "case.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCompose_Endpoint(t *testing.T) {
	f := newFixture()
	modelID := uuid.NewString()
	f.phones.phoneModels[modelID] = &models.PhoneModel{ID: modelID, Name: "iPhone 12"}

	body, contentType := composeForm(t, modelID, true)
	req := httptest.NewRequest(http.MethodPost, "/v1/products/compose", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "https://cdn.test/products/case.jpg", product.Variants[0].ImageURL)
	assert.Equal(t, []string{"case.jpg"}, f.uploader.uploads)
}

func TestCompose_MissingImage(t *testing.T) {
	f := newFixture()
	modelID := uuid.NewString()
	f.phones.phoneModels[modelID] = &models.PhoneModel{ID: modelID, Name: "iPhone 12"}

	body, contentType := composeForm(t, modelID, false)
	req := httptest.NewRequest(http.MethodPost, "/v1/products/compose", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.products.products)
}

func TestCompose_UploadFailure(t *testing.T) {
	f := newFixture()
	modelID := uuid.NewString()
	f.phones.phoneModels[modelID] = &models.PhoneModel{ID: modelID, Name: "iPhone 12"}
	f.uploader.err = fmt.Errorf("%w: bucket unreachable", utils.ErrUpload)

	body, contentType := composeForm(t, modelID, true)
	req := httptest.NewRequest(http.MethodPost, "/v1/products/compose", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, f.products.products, "no product may exist after a failed upload")
}

// --- Upload endpoint ---

func TestUpload_Endpoint(t *testing.T) {
	f := newFixture()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "banner.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://cdn.test/products/banner.png"}`, w.Body.String())
}

func TestUpload_MissingFilePart(t *testing.T) {
	f := newFixture()

	w := f.doJSON(t, http.MethodPost, "/v1/uploads", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
