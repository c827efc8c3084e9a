package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covercraft/catalog_api/internal/service"
	"github.com/covercraft/catalog_api/internal/utils"
)

// ModelHandler handles phone model HTTP endpoints.
type ModelHandler struct {
	catalog *service.CatalogService
}

// NewModelHandler constructs a ModelHandler.
func NewModelHandler(catalog *service.CatalogService) *ModelHandler {
	return &ModelHandler{catalog: catalog}
}

// CreateModelRequest is the body of POST /v1/models.
type CreateModelRequest struct {
	Name     string `json:"name" binding:"required"`
	SeriesID string `json:"seriesId" binding:"required"`
}

// ListModels handles GET /v1/models with an optional seriesId query filter.
func (h *ModelHandler) ListModels(c *gin.Context) {
	phoneModels, err := h.catalog.ListModels(c.Request.Context(), c.Query("seriesId"))
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch models")
		return
	}
	c.JSON(http.StatusOK, phoneModels)
}

// ListModelsBySeries handles GET /v1/models/:id where :id is a series id.
func (h *ModelHandler) ListModelsBySeries(c *gin.Context) {
	phoneModels, err := h.catalog.ListModels(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to fetch models")
		return
	}
	c.JSON(http.StatusOK, phoneModels)
}

// CreateModel handles POST /v1/models
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	phoneModel, err := h.catalog.CreateModel(c.Request.Context(), req.Name, req.SeriesID)
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to create model")
		return
	}
	c.JSON(http.StatusCreated, phoneModel)
}

// DeleteModel handles DELETE /v1/models
func (h *ModelHandler) DeleteModel(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.catalog.DeleteModel(c.Request.Context(), req.ID); err != nil {
		utils.ErrorFrom(c, err, "Failed to delete model")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
