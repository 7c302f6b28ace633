package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
	"vendoprint/internal/service"
)

// DashboardHandler serves the owner dashboard data.
type DashboardHandler struct {
	statsService *service.StatsService
	errorLogs    repository.ErrorLogRepository
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(statsService *service.StatsService, errorLogs repository.ErrorLogRepository) *DashboardHandler {
	return &DashboardHandler{statsService: statsService, errorLogs: errorLogs}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, stats)
}

// LogEntry is one print log row as rendered on the dashboard.
type LogEntry struct {
	ID           string    `json:"id"`
	FileType     string    `json:"file_type"`
	FileName     string    `json:"file_name"`
	Pages        int       `json:"pages"`
	Copies       int       `json:"copies"`
	ColorMode    string    `json:"color_mode"`
	Orientation  string    `json:"orientation"`
	Cost         float64   `json:"cost"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Logs handles GET /api/dashboard/logs
func (h *DashboardHandler) Logs(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	logs, err := h.statsService.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]LogEntry, 0, len(logs))
	for _, entry := range logs {
		entries = append(entries, toLogEntry(entry))
	}
	respondJSON(c, http.StatusOK, entries)
}

// ResolveError handles POST /api/dashboard/errors/:id/resolve
func (h *DashboardHandler) ResolveError(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "error id is required"})
		return
	}

	if err := h.errorLogs.Resolve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true})
}

func toLogEntry(entry *domain.PrintLog) LogEntry {
	return LogEntry{
		ID:           entry.ID,
		FileType:     string(entry.FileType),
		FileName:     entry.FileName,
		Pages:        entry.Pages,
		Copies:       entry.Copies,
		ColorMode:    string(entry.ColorMode),
		Orientation:  string(entry.Orientation),
		Cost:         entry.Cost,
		Status:       string(entry.Status),
		ErrorMessage: entry.ErrorMessage,
		Timestamp:    entry.CreatedAt,
	}
}
