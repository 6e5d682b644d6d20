package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidInput  = errors.New("invalid input")

	// Gateway errors
	ErrTokenNotConfigured = errors.New("PredictHQ API token is not configured")
	ErrLoadSuperseded     = errors.New("load superseded by a newer refresh")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Evidence errors
	ErrInvalidScreenshot  = errors.New("invalid screenshot")
	ErrScreenshotNotFound = errors.New("screenshot not found")
)
