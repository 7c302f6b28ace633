package domain

import "time"

// JobStatus represents the current status of a print job.
type JobStatus string

const (
	JobStatusIdle      JobStatus = "IDLE"
	JobStatusUploaded  JobStatus = "UPLOADED"
	JobStatusPrinting  JobStatus = "PRINTING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// FileType distinguishes the two kiosk workflows.
type FileType string

const (
	FileTypeDocument FileType = "document"
	FileTypePhoto    FileType = "photo"
)

// ColorMode represents the requested print color mode.
type ColorMode string

const (
	ColorModeGrayscale ColorMode = "grayscale"
	ColorModeColor     ColorMode = "color"
)

// Orientation represents the requested page orientation.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PageRange selects a contiguous subset of pages. A nil *PageRange means
// the whole document.
type PageRange struct {
	Start int
	End   int
}

// PrintJob represents the single active job on the kiosk, from upload to
// print-or-cancel.
type PrintJob struct {
	ID          string
	SessionID   string // payment session token for this upload
	FileName    string
	FilePath    string
	FileType    FileType
	Pages       int
	Copies      int
	PageRange   *PageRange
	Orientation Orientation
	ColorMode   ColorMode
	Cost        float64
	Status      JobStatus
	CurrentPage int
	TotalPages  int // pages actually sent to the printer (range x copies)
	UploadedAt  time.Time
}

// BillablePages returns the number of sheets the job will consume,
// including copies and the selected range.
func (j *PrintJob) BillablePages() int {
	pages := j.Pages
	if j.PageRange != nil {
		pages = j.PageRange.End - j.PageRange.Start + 1
	}
	copies := j.Copies
	if copies < 1 {
		copies = 1
	}
	return pages * copies
}
