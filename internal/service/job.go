package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"vendoprint/internal/config"
	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
)

// PrintSubmitter submits a job to the physical printer and blocks until
// the job leaves the queue or fails.
type PrintSubmitter interface {
	Print(ctx context.Context, job *domain.PrintJob) error
}

// SoundPlayer plays the kiosk audio cues. Implementations must be
// non-blocking and must never fail loudly.
type SoundPlayer interface {
	Coin()
	Printing()
	Complete()
	Error()
}

// PrinterStatusCache drops the cached printer status snapshot so the
// next poll after a job settles sees fresh state.
type PrinterStatusCache interface {
	InvalidatePrinterStatus(ctx context.Context) error
}

// completionGrace is how long the completion screen stays up before the
// kiosk returns to idle and the payment session resets.
const completionGrace = 2 * time.Second

// JobService owns the kiosk's single active print job and its payment
// session. It is the only writer of job state; the ledger arbitrates all
// payment state.
type JobService struct {
	mu  sync.Mutex
	job *domain.PrintJob

	ledger      *Ledger
	pricer      *Pricer
	printer     PrintSubmitter
	printLogs   repository.PrintLogRepository
	paymentLogs repository.PaymentLogRepository
	errorLogs   repository.ErrorLogRepository
	notifier    *NotificationService
	sounds      SoundPlayer
	statusCache PrinterStatusCache
	jobTimeout  time.Duration
}

// NewJobService creates a JobService and its payment ledger.
func NewJobService(
	cfg *config.Config,
	printer PrintSubmitter,
	printLogs repository.PrintLogRepository,
	paymentLogs repository.PaymentLogRepository,
	errorLogs repository.ErrorLogRepository,
	notifier *NotificationService,
	sounds SoundPlayer,
	statusCache PrinterStatusCache,
) *JobService {
	s := &JobService{
		pricer:      NewPricer(cfg.Printer),
		printer:     printer,
		printLogs:   printLogs,
		paymentLogs: paymentLogs,
		errorLogs:   errorLogs,
		notifier:    notifier,
		sounds:      sounds,
		statusCache: statusCache,
		jobTimeout:  cfg.Printer.JobTimeout,
	}
	s.ledger = NewLedger(cfg.Coins, s.onCredit)
	return s
}

// Ledger exposes the payment ledger for the coin acceptor loop.
func (s *JobService) Ledger() *Ledger {
	return s.ledger
}

// onCredit runs after every accepted credit, outside the ledger's lock.
// It records the payment log and plays the coin cue; neither may fail the
// credit itself.
func (s *JobService) onCredit(value float64, source domain.CreditSource, snap domain.PaymentSnapshot) {
	log.Printf("[PAYMENT] coin inserted via %s: %.2f, total paid: %.2f, cost: %.2f",
		source, value, snap.Paid, snap.Required)

	if s.paymentLogs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		entry := &domain.PaymentLog{
			ID:        uuid.New().String(),
			SessionID: snap.SessionID,
			CoinValue: value,
			TotalPaid: snap.Paid,
			TotalCost: snap.Required,
			Source:    source,
			CreatedAt: time.Now(),
		}
		if err := s.paymentLogs.Create(ctx, entry); err != nil {
			log.Printf("[PAYMENT] failed to record payment log: %v", err)
		}
	}

	if s.sounds != nil {
		s.sounds.Coin()
	}
}

// UploadParams describes a file accepted by the upload handler.
type UploadParams struct {
	FileName string
	FilePath string
	FileType domain.FileType
	Pages    int
}

// NewUpload starts a new job lifecycle: resets the payment session and
// replaces the current job. Any coins from the previous session are gone;
// the ledger logs them if they arrive late.
func (s *JobService) NewUpload(ctx context.Context, params UploadParams) (*domain.PrintJob, error) {
	session := s.ledger.Reset()

	job := &domain.PrintJob{
		ID:          uuid.New().String(),
		SessionID:   session,
		FileName:    params.FileName,
		FilePath:    params.FilePath,
		FileType:    params.FileType,
		Pages:       params.Pages,
		Copies:      1,
		Orientation: domain.OrientationPortrait,
		ColorMode:   domain.ColorModeGrayscale,
		Status:      domain.JobStatusUploaded,
		UploadedAt:  time.Now(),
	}

	s.mu.Lock()
	s.job = job
	s.mu.Unlock()

	return cloneJob(job), nil
}

// CostRequest carries the user's print options.
type CostRequest struct {
	Copies      int
	PageRange   *domain.PageRange
	Orientation domain.Orientation
	ColorMode   domain.ColorMode
}

// CalculateCost applies print options to the current job and updates the
// price due. Idempotent: repeating the same options leaves the required
// amount unchanged and never touches the paid amount.
func (s *JobService) CalculateCost(ctx context.Context, req CostRequest) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job == nil {
		return Quote{}, ErrNoActiveJob
	}

	quote, err := s.pricer.Cost(s.job.Pages, req.Copies, req.PageRange, req.ColorMode)
	if err != nil {
		return Quote{}, err
	}

	s.job.Copies = req.Copies
	s.job.PageRange = req.PageRange
	s.job.ColorMode = req.ColorMode
	if req.Orientation != "" {
		s.job.Orientation = req.Orientation
	}
	s.job.Cost = quote.Total

	if err := s.ledger.SetRequired(quote.Total); err != nil {
		return Quote{}, err
	}

	return quote, nil
}

// PaymentStatus returns the ledger snapshot for the browser poll.
func (s *JobService) PaymentStatus() domain.PaymentSnapshot {
	return s.ledger.Snapshot()
}

// ManualCredit records a coin through the manual/test path.
func (s *JobService) ManualCredit(value float64) (domain.PaymentSnapshot, error) {
	return s.ledger.Credit("", value, domain.CreditSourceManual)
}

// ConfirmCoin credits the pending hardware coin (confirm mode only).
func (s *JobService) ConfirmCoin() (domain.PaymentSnapshot, error) {
	return s.ledger.ConfirmPending()
}

// StartPrint gates on payment and submits the current job. The payment
// check happens inside the ledger's exclusion domain here, server-side;
// the client's view of can_print is never trusted.
func (s *JobService) StartPrint(ctx context.Context) (*domain.PrintJob, error) {
	s.mu.Lock()
	if s.job == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveJob
	}
	if s.job.Status != domain.JobStatusUploaded {
		s.mu.Unlock()
		return nil, ErrJobNotReady
	}

	if _, err := s.ledger.AuthorizePrint(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.job.Status = domain.JobStatusPrinting
	s.job.TotalPages = s.job.BillablePages()
	s.job.CurrentPage = 0
	job := cloneJob(s.job)
	s.mu.Unlock()

	s.logPrintStart(ctx, job)

	if s.sounds != nil {
		s.sounds.Printing()
	}

	go s.runPrint(job)

	return job, nil
}

// JobStatus returns a copy of the current job, or nil when idle.
func (s *JobService) JobStatus() *domain.PrintJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return nil
	}
	return cloneJob(s.job)
}

// runPrint executes the physical print in the background and settles the
// job into a terminal state.
func (s *JobService) runPrint(job *domain.PrintJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout+30*time.Second)
	defer cancel()

	err := s.printer.Print(ctx, job)
	if err == nil {
		s.finishPrint(ctx, job, domain.JobStatusCompleted, "")
		return
	}

	log.Printf("[PRINT] job %s failed: %v", job.ID, err)
	s.finishPrint(ctx, job, domain.JobStatusFailed, err.Error())
}

// finishPrint records the outcome, plays the matching cue, and after a
// short grace resets the kiosk to idle. The ledger reset here is the
// terminal-state reset: the session ends whether the print succeeded or
// not. Both the job clear and the reset are scoped to the finished job;
// a newer upload's job and session are left alone.
func (s *JobService) finishPrint(ctx context.Context, job *domain.PrintJob, status domain.JobStatus, errMsg string) {
	s.mu.Lock()
	if s.job != nil && s.job.ID == job.ID {
		s.job.Status = status
		if status == domain.JobStatusCompleted {
			s.job.CurrentPage = s.job.TotalPages
		}
	}
	s.mu.Unlock()

	if s.printLogs != nil {
		if err := s.printLogs.UpdateOutcome(ctx, job.ID, status, errMsg); err != nil {
			log.Printf("[PRINT] failed to record outcome: %v", err)
		}
	}

	if s.statusCache != nil {
		if err := s.statusCache.InvalidatePrinterStatus(ctx); err != nil {
			log.Printf("[PRINT] failed to drop printer status cache: %v", err)
		}
	}

	if status == domain.JobStatusCompleted {
		if s.sounds != nil {
			s.sounds.Complete()
		}
	} else {
		if s.sounds != nil {
			s.sounds.Error()
		}
		s.recordError(ctx, errMsg)
	}

	time.Sleep(completionGrace)

	s.mu.Lock()
	if s.job != nil && s.job.ID == job.ID {
		s.job = nil
	}
	s.mu.Unlock()
	s.ledger.ResetIfSession(job.SessionID)
}

// logPrintStart writes the print log row for a submitted job.
func (s *JobService) logPrintStart(ctx context.Context, job *domain.PrintJob) {
	if s.printLogs == nil {
		return
	}
	entry := &domain.PrintLog{
		ID:          job.ID,
		JobID:       job.ID,
		FileType:    job.FileType,
		FileName:    job.FileName,
		Pages:       job.Pages,
		Copies:      job.Copies,
		ColorMode:   job.ColorMode,
		Orientation: job.Orientation,
		Cost:        job.Cost,
		Status:      domain.JobStatusPrinting,
		CreatedAt:   time.Now(),
	}
	if err := s.printLogs.Create(ctx, entry); err != nil {
		log.Printf("[PRINT] failed to record print start: %v", err)
	}
}

// recordError persists a classified error and alerts the owner.
func (s *JobService) recordError(ctx context.Context, message string) {
	errType := ClassifyError(message)

	if s.errorLogs != nil {
		entry := &domain.ErrorLog{
			ID:        uuid.New().String(),
			Type:      errType,
			Message:   message,
			CreatedAt: time.Now(),
		}
		if err := s.errorLogs.Create(ctx, entry); err != nil {
			log.Printf("[ERROR] failed to record error log: %v", err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyError(ctx, errType, message)
	}
}

func cloneJob(job *domain.PrintJob) *domain.PrintJob {
	clone := *job
	if job.PageRange != nil {
		pr := *job.PageRange
		clone.PageRange = &pr
	}
	return &clone
}
