package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendoprint/internal/domain"
	"vendoprint/internal/redis"
)

// PrinterStatusProvider reports the physical printer state.
type PrinterStatusProvider interface {
	Status(ctx context.Context) domain.PrinterStatus
}

// PrinterHandler serves the printer status endpoint.
type PrinterHandler struct {
	printer PrinterStatusProvider
	cache   *redis.CacheStore
}

// NewPrinterHandler creates a new PrinterHandler. cache may be nil.
func NewPrinterHandler(printer PrinterStatusProvider, cache *redis.CacheStore) *PrinterHandler {
	return &PrinterHandler{printer: printer, cache: cache}
}

// Status handles GET /api/printer-status. lpstat is a shellout, so the
// result is cached briefly; the kiosk UI polls this endpoint.
func (h *PrinterHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetPrinterStatus(ctx); err == nil && cached != nil {
			respondJSON(c, http.StatusOK, cached)
			return
		}
	}

	status := h.printer.Status(ctx)

	if h.cache != nil {
		_ = h.cache.SetPrinterStatus(ctx, &status)
	}

	respondJSON(c, http.StatusOK, status)
}
