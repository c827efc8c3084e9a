package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covercraft/catalog_api/internal/service"
	"github.com/covercraft/catalog_api/internal/utils"
)

// BrandHandler handles brand HTTP endpoints.
type BrandHandler struct {
	catalog *service.CatalogService
}

// NewBrandHandler constructs a BrandHandler.
func NewBrandHandler(catalog *service.CatalogService) *BrandHandler {
	return &BrandHandler{catalog: catalog}
}

// CreateBrandRequest is the body of POST /v1/brands.
type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
}

// DeleteRequest is the body of the DELETE endpoints, which identify the row
// in the request body rather than the path.
type DeleteRequest struct {
	ID string `json:"id" binding:"required"`
}

// ListBrands handles GET /v1/brands
func (h *BrandHandler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.ListBrands(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch brands")
		return
	}
	c.JSON(http.StatusOK, brands)
}

// CreateBrand handles POST /v1/brands
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	brand, err := h.catalog.CreateBrand(c.Request.Context(), req.Name)
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to create brand")
		return
	}
	c.JSON(http.StatusCreated, brand)
}

// DeleteBrand handles DELETE /v1/brands
func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.catalog.DeleteBrand(c.Request.Context(), req.ID); err != nil {
		utils.ErrorFrom(c, err, "Failed to delete brand")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
