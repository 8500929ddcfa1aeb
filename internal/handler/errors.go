package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/repository"
	"GeoGrid-App/internal/usecase"
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// respondError はエラーの種類に応じたステータスでJSONを返す
func respondError(c *gin.Context, err error, message string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Error(),
		})
	case errors.Is(err, usecase.ErrTooManyCells):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "too_many_cells",
			"message": err.Error(),
		})
	case errors.Is(err, gridindex.ErrOutOfDomain):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "out_of_domain",
			"message": err.Error(),
		})
	case errors.Is(err, usecase.ErrPointStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "service_unavailable",
			"message": err.Error(),
		})
	case errors.Is(err, repository.ErrSearchAreaNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": message + ": " + err.Error(),
		})
	}
}
