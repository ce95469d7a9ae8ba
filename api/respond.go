package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto the client-visible status codes.
// Everything unexpected becomes an opaque 500.
func respondError(c *gin.Context, err error) {
	var insufficient *domain.InsufficientFundsError
	var invalid domain.ValidationError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     insufficient.Error(),
			"required":  insufficient.Required,
			"balance":   insufficient.Balance,
			"shortfall": insufficient.Shortfall(),
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": invalid.Error()})
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
