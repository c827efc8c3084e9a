package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/covercraft/catalog_api/internal/service"
	"github.com/covercraft/catalog_api/internal/utils"
	"github.com/covercraft/catalog_api/internal/workflow"
)

// ProductHandler handles cover product and variant HTTP endpoints.
type ProductHandler struct {
	products *service.ProductService
	uploader workflow.Uploader
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(products *service.ProductService, uploader workflow.Uploader) *ProductHandler {
	return &ProductHandler{
		products: products,
		uploader: uploader,
	}
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /v1/products. Every variant imageUrl must
// already be a resolved storage URL; use Compose for raw files.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListVariants handles GET /v1/variants
func (h *ProductHandler) ListVariants(c *gin.Context) {
	variants, err := h.products.ListVariants(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch variants")
		return
	}
	c.JSON(http.StatusOK, variants)
}

// composeVariant is one variant entry of the multipart compose request. The
// image file travels as a separate part named "image_<phoneModelId>".
type composeVariant struct {
	PhoneModelID string          `json:"phoneModelId"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	IsActive     *bool           `json:"isActive"`
}

// Compose handles POST /v1/products/compose. It accepts multipart form data
// (fields: name, description, brandId, seriesId, variants as a JSON array;
// files: image_<phoneModelId>) and drives the composition workflow
// server-side: pending images are uploaded concurrently, then the product and
// its variants are created in one transaction. Any upload failure aborts the
// whole request with no product created.
func (h *ProductHandler) Compose(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var entries []composeVariant
	if raw := c.PostForm("variants"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid variants payload")
			return
		}
	}

	comp := workflow.NewComposition(h.uploader, h.products)
	comp.SetProductInfo(c.PostForm("name"), c.PostForm("description"))

	if err := comp.SelectBrand(c.PostForm("brandId")); err != nil {
		utils.ErrorFrom(c, err, "Failed to compose product")
		return
	}
	if err := comp.SelectSeries(c.PostForm("seriesId")); err != nil {
		utils.ErrorFrom(c, err, "Failed to compose product")
		return
	}

	modelIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		modelIDs = append(modelIDs, e.PhoneModelID)
	}
	if err := comp.AddModels(modelIDs...); err != nil {
		utils.ErrorFrom(c, err, "Failed to compose product")
		return
	}

	for _, e := range entries {
		if err := comp.SetVariantPrice(e.PhoneModelID, e.Price); err != nil {
			utils.ErrorFrom(c, err, "Failed to compose product")
			return
		}
		if err := comp.SetVariantQuantity(e.PhoneModelID, e.Quantity); err != nil {
			utils.ErrorFrom(c, err, "Failed to compose product")
			return
		}
		if e.IsActive != nil {
			if err := comp.SetVariantActive(e.PhoneModelID, *e.IsActive); err != nil {
				utils.ErrorFrom(c, err, "Failed to compose product")
				return
			}
		}

		files := form.File["image_"+e.PhoneModelID]
		if len(files) == 0 {
			continue
		}
		image, err := readImageFile(files[0])
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "Failed to read image for model "+e.PhoneModelID)
			return
		}
		if err := comp.SetVariantImage(e.PhoneModelID, image); err != nil {
			utils.ErrorFrom(c, err, "Failed to compose product")
			return
		}
	}

	if err := comp.Submit(c.Request.Context()); err != nil {
		utils.ErrorFrom(c, err, "Failed to compose product")
		return
	}
	c.JSON(http.StatusCreated, comp.Product())
}

// readImageFile loads one multipart file part into memory.
func readImageFile(fh *multipart.FileHeader) (*workflow.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &workflow.ImageFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
