package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ohalko/inventory-api/internal/model"
	"github.com/ohalko/inventory-api/internal/repository"
	"github.com/ohalko/inventory-api/internal/storage"
)

// respondError writes the uniform failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps service-layer errors onto the error taxonomy:
// validation 400, not found 404, upstream image storage 502, everything
// else 500 with the fallback message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrInvalidProduct):
		respondError(c, 400, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, 404, "Product not found")
	case errors.Is(err, storage.ErrUploadFailed):
		respondError(c, 502, "Image upload failed")
	default:
		respondError(c, 500, fallback)
	}
}
