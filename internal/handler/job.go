package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendoprint/internal/domain"
	"vendoprint/internal/service"
)

// JobHandler handles cost calculation and print control.
type JobHandler struct {
	jobService *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CostRequest is the HTTP request body for a cost calculation.
type CostRequest struct {
	Copies      int    `json:"copies"`
	ColorMode   string `json:"color_mode"`
	Orientation string `json:"orientation"`
	PageRange   *struct {
		Start int `json:"start"`
		End   int `json:"end"`
	} `json:"page_range"`
}

// CostResponse is the HTTP response for a cost calculation.
type CostResponse struct {
	Success      bool    `json:"success"`
	Cost         float64 `json:"cost"`
	Pages        int     `json:"pages"`
	PricePerPage float64 `json:"price_per_page"`
}

// CalculateCost handles POST /api/calculate-cost
func (h *JobHandler) CalculateCost(c *gin.Context) {
	var req CostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Copies == 0 {
		req.Copies = 1
	}

	colorMode := domain.ColorModeGrayscale
	if req.ColorMode == string(domain.ColorModeColor) {
		colorMode = domain.ColorModeColor
	}

	orientation := domain.Orientation(req.Orientation)
	if orientation != domain.OrientationLandscape {
		orientation = domain.OrientationPortrait
	}

	var pageRange *domain.PageRange
	if req.PageRange != nil {
		pageRange = &domain.PageRange{Start: req.PageRange.Start, End: req.PageRange.End}
	}

	quote, err := h.jobService.CalculateCost(c.Request.Context(), service.CostRequest{
		Copies:      req.Copies,
		PageRange:   pageRange,
		Orientation: orientation,
		ColorMode:   colorMode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CostResponse{
		Success:      true,
		Cost:         quote.Total,
		Pages:        quote.Pages,
		PricePerPage: quote.PricePerPage,
	})
}

// StartPrintResponse is the HTTP response for a print start.
type StartPrintResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StartPrint handles POST /api/start-print
func (h *JobHandler) StartPrint(c *gin.Context) {
	job, err := h.jobService.StartPrint(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StartPrintResponse{
		Success: true,
		Status:  string(job.Status),
		Message: "printing started",
	})
}

// PrintStatusResponse is the polling view of the current job.
type PrintStatusResponse struct {
	Status      string `json:"status"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
}

// PrintStatus handles GET /api/print-status
func (h *JobHandler) PrintStatus(c *gin.Context) {
	job := h.jobService.JobStatus()
	if job == nil {
		respondJSON(c, http.StatusOK, PrintStatusResponse{Status: string(domain.JobStatusIdle)})
		return
	}

	respondJSON(c, http.StatusOK, PrintStatusResponse{
		Status:      string(job.Status),
		CurrentPage: job.CurrentPage,
		TotalPages:  job.TotalPages,
	})
}
