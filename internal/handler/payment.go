package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendoprint/internal/domain"
	"vendoprint/internal/service"
)

// PaymentHandler handles HTTP requests for the payment session.
type PaymentHandler struct {
	jobService *service.JobService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(jobService *service.JobService) *PaymentHandler {
	return &PaymentHandler{jobService: jobService}
}

// PaymentStatusResponse is the polling snapshot returned to the browser.
type PaymentStatusResponse struct {
	Paid        float64 `json:"paid"`
	Cost        float64 `json:"cost"`
	Remaining   float64 `json:"remaining"`
	PendingCoin float64 `json:"pending_coin,omitempty"`
	CanPrint    bool    `json:"can_print"`
}

func snapshotResponse(snap domain.PaymentSnapshot) PaymentStatusResponse {
	return PaymentStatusResponse{
		Paid:        snap.Paid,
		Cost:        snap.Required,
		Remaining:   snap.Remaining,
		PendingCoin: snap.PendingCoin,
		CanPrint:    snap.CanPrint,
	}
}

// Status handles GET /api/payment-status
func (h *PaymentHandler) Status(c *gin.Context) {
	respondJSON(c, http.StatusOK, snapshotResponse(h.jobService.PaymentStatus()))
}

// CoinRequest is the HTTP request body for a manual coin credit.
type CoinRequest struct {
	Value float64 `json:"value"`
}

// CoinResponse is the HTTP response for a coin credit.
type CoinResponse struct {
	Success bool `json:"success"`
	PaymentStatusResponse
}

// InsertCoin handles POST /api/coin-inserted, the manual/test credit
// path. Any positive value is accepted here so the kiosk can be paid
// without the physical acceptor.
func (h *PaymentHandler) InsertCoin(c *gin.Context) {
	var req CoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Value <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid coin value"})
		return
	}

	snap, err := h.jobService.ManualCredit(req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CoinResponse{
		Success:               true,
		PaymentStatusResponse: snapshotResponse(snap),
	})
}

// ConfirmCoin handles POST /api/coin-confirm. Credits the pending
// hardware coin when the kiosk runs in confirm mode.
func (h *PaymentHandler) ConfirmCoin(c *gin.Context) {
	snap, err := h.jobService.ConfirmCoin()
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CoinResponse{
		Success:               true,
		PaymentStatusResponse: snapshotResponse(snap),
	})
}
