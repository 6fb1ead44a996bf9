package httpHandler

import (
	"errors"
	"net/http"

	"smartdrishti-server/usecases"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps usecase errors onto the API's status codes. Anything
// that isn't a recognized sentinel is an internal failure and stays opaque.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecases.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		respondInternal(c, "Internal server error")
	}
}

// respondInternal hides the underlying error behind a generic message.
func respondInternal(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
