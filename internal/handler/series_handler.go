package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covercraft/catalog_api/internal/service"
	"github.com/covercraft/catalog_api/internal/utils"
)

// SeriesHandler handles series HTTP endpoints.
type SeriesHandler struct {
	catalog *service.CatalogService
}

// NewSeriesHandler constructs a SeriesHandler.
func NewSeriesHandler(catalog *service.CatalogService) *SeriesHandler {
	return &SeriesHandler{catalog: catalog}
}

// CreateSeriesRequest is the body of POST /v1/series.
type CreateSeriesRequest struct {
	Name    string `json:"name" binding:"required"`
	BrandID string `json:"brandId" binding:"required"`
}

// ListSeries handles GET /v1/series with an optional brandId query filter.
func (h *SeriesHandler) ListSeries(c *gin.Context) {
	series, err := h.catalog.ListSeries(c.Request.Context(), c.Query("brandId"))
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch series")
		return
	}
	c.JSON(http.StatusOK, series)
}

// ListSeriesByBrand handles GET /v1/series/:id where :id is a brand id.
func (h *SeriesHandler) ListSeriesByBrand(c *gin.Context) {
	series, err := h.catalog.ListSeries(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch series")
		return
	}
	c.JSON(http.StatusOK, series)
}

// CreateSeries handles POST /v1/series
func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	series, err := h.catalog.CreateSeries(c.Request.Context(), req.Name, req.BrandID)
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to create series")
		return
	}
	c.JSON(http.StatusCreated, series)
}

// DeleteSeries handles DELETE /v1/series
func (h *SeriesHandler) DeleteSeries(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.catalog.DeleteSeries(c.Request.Context(), req.ID); err != nil {
		utils.ErrorFrom(c, err, "Failed to delete series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
