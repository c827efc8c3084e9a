package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covercraft/catalog_api/internal/utils"
	"github.com/covercraft/catalog_api/internal/workflow"
)

// UploadHandler exposes the media adapter directly for clients that resolve
// image URLs before calling POST /v1/products.
type UploadHandler struct {
	uploader workflow.Uploader
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploader workflow.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload handles POST /v1/uploads. It accepts a single multipart file part
// named "file" and returns the stable retrieval URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "A file part named 'file' is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), "products", fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to upload file")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
