package transport

import (
	"errors"
	"net/http"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"

	"github.com/gin-gonic/gin"
)

const (
	msgTokenNotConfigured = "PredictHQ API token is not configured. Please set PREDICTHQ_API_TOKEN (predicthq.api_token)"
	msgUpstreamFailed     = "Failed to fetch events from PredictHQ"
	msgUnexpected         = "An unexpected error occurred while fetching events"
	msgLoadSuperseded     = "Refresh superseded by a newer one"
)

// writeFetchError renders a gateway or refresh failure in the gateway route's error shape.
func writeFetchError(c *gin.Context, err error) {
	var upErr *entity.UpstreamError
	switch {
	case errors.Is(err, entity.ErrTokenNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgTokenNotConfigured})
	case errors.As(err, &upErr):
		c.JSON(upErr.StatusCode, gin.H{
			"error":     msgUpstreamFailed,
			"details":   upErr.StatusText,
			"status":    upErr.StatusCode,
			"errorText": upErr.Body,
		})
	case errors.Is(err, entity.ErrLoadSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": msgLoadSuperseded})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   msgUnexpected,
			"details": err.Error(),
		})
	}
}

func errorStatus(err error) int {
	var upErr *entity.UpstreamError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &upErr):
		return upErr.StatusCode
	case errors.Is(err, entity.ErrEventNotFound), errors.Is(err, entity.ErrScreenshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrInvalidScreenshot):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrLoadSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the operator-facing text for a failure.
func errorMessage(err error) string {
	var upErr *entity.UpstreamError
	switch {
	case errors.Is(err, entity.ErrTokenNotConfigured):
		return msgTokenNotConfigured
	case errors.As(err, &upErr):
		return msgUpstreamFailed + ": " + upErr.StatusText
	case errors.Is(err, entity.ErrLoadSuperseded):
		return msgLoadSuperseded
	default:
		return err.Error()
	}
}
