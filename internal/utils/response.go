package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes an error body with an explicit status code.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// ErrorFrom classifies err against the application error taxonomy and writes
// the matching status. Unclassified errors become a 500 with the fallback
// message so internal details never leak to clients.
func ErrorFrom(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUpload):
		Error(c, http.StatusBadGateway, err.Error())
	default:
		Error(c, http.StatusInternalServerError, fallback)
	}
}
