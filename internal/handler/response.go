package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendoprint/internal/printer"
	"vendoprint/internal/repository"
	"vendoprint/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDenomination),
		errors.Is(err, service.ErrInvalidFileType),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrInvalidPageRange),
		errors.Is(err, service.ErrInvalidCopies):
		return http.StatusBadRequest

	// The vending gate: not enough coins yet.
	case errors.Is(err, service.ErrInsufficientPayment):
		return http.StatusPaymentRequired

	// State conflicts
	case errors.Is(err, service.ErrNoActiveJob),
		errors.Is(err, service.ErrJobNotReady),
		errors.Is(err, service.ErrNoPendingCoin),
		errors.Is(err, service.ErrStaleSessionCredit):
		return http.StatusConflict

	// Hardware unavailable
	case errors.Is(err, printer.ErrPrinterUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
