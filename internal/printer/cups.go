// Package printer submits jobs to CUPS through the lp/lpstat command
// line tools and reports printer state.
package printer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"vendoprint/internal/domain"
)

// ErrPrinterUnavailable is returned when no usable printer can be found.
var ErrPrinterUnavailable = errors.New("printer unavailable")

// Runner executes an external command and returns its stdout. Injected so
// tests run without a CUPS installation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run executes the command and returns the combined trimmed stdout.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

// CUPS drives a CUPS printer. Safe for use from the print goroutine and
// the status endpoint concurrently; it holds no mutable state beyond the
// resolved printer name set at initialization.
type CUPS struct {
	printerName string
	jobTimeout  time.Duration
	runner      Runner
}

// New creates a CUPS client for the named printer.
func New(printerName string, jobTimeout time.Duration, runner Runner) *CUPS {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CUPS{
		printerName: printerName,
		jobTimeout:  jobTimeout,
		runner:      runner,
	}
}

// Initialize verifies the configured printer exists, falling back to the
// CUPS default printer when it does not. A missing printer is logged but
// not fatal; the kiosk reports it through the status endpoint instead.
func (c *CUPS) Initialize(ctx context.Context) {
	if _, err := c.runner.Run(ctx, "lpstat", "-p", c.printerName); err == nil {
		log.Printf("[PRINTER] %s is available", c.printerName)
		return
	}

	log.Printf("[PRINTER] %s not found, trying default", c.printerName)
	out, err := c.runner.Run(ctx, "lpstat", "-d")
	if err != nil {
		log.Printf("[PRINTER] no default printer: %v", err)
		return
	}

	// lpstat -d prints "system default destination: <name>"
	if idx := strings.Index(out, ":"); idx >= 0 {
		name := strings.TrimSpace(out[idx+1:])
		if name != "" {
			c.printerName = name
			log.Printf("[PRINTER] using default printer %s", name)
		}
	}
}

// Print submits the file to CUPS with the job's options and waits for the
// queue to drain the job, bounded by the configured job timeout.
func (c *CUPS) Print(ctx context.Context, job *domain.PrintJob) error {
	args := buildArgs(c.printerName, job)

	ctx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()

	out, err := c.runner.Run(ctx, "lp", args...)
	if err != nil {
		return fmt.Errorf("lp: %w", err)
	}

	jobID := parseJobID(out)
	if jobID == "" {
		return nil
	}

	return c.waitForJob(ctx, jobID)
}

// buildArgs assembles the lp invocation for the job.
func buildArgs(printerName string, job *domain.PrintJob) []string {
	args := []string{"-d", printerName, "-n", fmt.Sprintf("%d", job.Copies)}

	if job.Orientation == domain.OrientationLandscape {
		args = append(args, "-o", "orientation-requested=4")
	} else {
		args = append(args, "-o", "orientation-requested=3")
	}

	if job.ColorMode == domain.ColorModeColor {
		args = append(args, "-o", "ColorMode=Color")
	} else {
		args = append(args, "-o", "ColorMode=Grayscale")
	}

	if job.PageRange != nil {
		args = append(args, "-o", fmt.Sprintf("page-ranges=%d-%d", job.PageRange.Start, job.PageRange.End))
	}

	return append(args, job.FilePath)
}

// parseJobID extracts the job id from lp output, e.g.
// "request id is Brother-42 (1 file(s))" -> "Brother-42".
func parseJobID(out string) string {
	fields := strings.Fields(out)
	for i, f := range fields {
		if f == "is" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// waitForJob polls lpstat until the job leaves the queue or the context
// expires.
func (c *CUPS) waitForJob(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("print job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
			out, err := c.runner.Run(ctx, "lpstat", "-o", jobID)
			if err != nil || strings.TrimSpace(out) == "" {
				// Job left the queue: completed or cancelled outside us.
				return nil
			}
		}
	}
}

// Status reports the current printer state for the status endpoint.
func (c *CUPS) Status(ctx context.Context) domain.PrinterStatus {
	status := domain.PrinterStatus{
		PrinterName: c.printerName,
		Online:      true,
	}

	out, err := c.runner.Run(ctx, "lpstat", "-p", c.printerName, "-l")
	if err != nil {
		status.Online = false
		status.State = domain.PrinterStateError
		status.ErrorStatus = err.Error()
		return status
	}

	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "idle"):
		status.State = domain.PrinterStateIdle
	case strings.Contains(lower, "printing"):
		status.State = domain.PrinterStatePrinting
	case strings.Contains(lower, "stopped"), strings.Contains(lower, "error"):
		status.State = domain.PrinterStateError
		status.ErrorStatus = "printer error detected"
	default:
		status.State = domain.PrinterStateUnknown
	}

	return status
}

// Name returns the resolved printer name.
func (c *CUPS) Name() string {
	return c.printerName
}
