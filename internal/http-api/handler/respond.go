package handler

import (
	"errors"
	"net/http"

	"blogapi/internal/http-api/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Errors without a
// kind are internal and get a generic body so details never leak.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(status, gin.H{"error": appErr.Message, "kind": string(appErr.Kind)})
		return
	}

	_ = c.Error(err) // surface in gin's error log
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": string(apperr.KindValidation)})
}
