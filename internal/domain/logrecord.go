package domain

import "time"

// PrintLog is one row of the print activity log.
type PrintLog struct {
	ID           string
	JobID        string
	FileType     FileType
	FileName     string
	Pages        int
	Copies       int
	ColorMode    ColorMode
	Orientation  Orientation
	Cost         float64
	Status       JobStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// PaymentLog is one accepted credit event, recorded for revenue auditing.
type PaymentLog struct {
	ID        string
	SessionID string
	CoinValue float64
	TotalPaid float64
	TotalCost float64
	Source    CreditSource
	CreatedAt time.Time
}

// ErrorType classifies a kiosk error for the owner dashboard and
// notifications.
type ErrorType string

const (
	ErrorTypeNoPaper    ErrorType = "no_paper"
	ErrorTypePaperJam   ErrorType = "paper_jam"
	ErrorTypeLowInk     ErrorType = "low_ink"
	ErrorTypeConnection ErrorType = "connection_error"
	ErrorTypeSystem     ErrorType = "system_error"
)

// ErrorLog is one recorded kiosk error.
type ErrorLog struct {
	ID        string
	Type      ErrorType
	Message   string
	Resolved  bool
	CreatedAt time.Time
}

// Stats holds the aggregate numbers shown on the owner dashboard.
type Stats struct {
	TotalPrints      int     `json:"total_prints"`
	FailedPrints     int     `json:"failed_prints"`
	TodayPrints      int     `json:"today_prints"`
	TotalRevenue     float64 `json:"total_revenue"`
	TodayRevenue     float64 `json:"today_revenue"` // coins accepted since midnight
	SuccessRate      float64 `json:"success_rate"`
	UnresolvedErrors int     `json:"unresolved_errors"`
}
