// Package hardware reads the coin acceptor's pulse line and feeds edge
// timestamps into the payment ledger. A missing or broken line degrades
// the kiosk to manual-credit-only operation; it never takes the process
// down.
package hardware

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

// HardwareError wraps a failure of the physical coin acceptor interface.
type HardwareError struct {
	Op  string
	Err error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("coin acceptor %s: %v", e.Op, e.Err)
}

func (e *HardwareError) Unwrap() error {
	return e.Err
}

// PulseSource delivers edge timestamps from the coin acceptor line.
type PulseSource interface {
	// Pulses returns a channel of edge timestamps. The channel closes
	// when the source fails or the context ends.
	Pulses(ctx context.Context) (<-chan time.Time, error)
}

// PulseLedger is the slice of the payment ledger the acceptor drives.
type PulseLedger interface {
	Pulse(at time.Time)
	Tick(now time.Time)
}

// tickInterval bounds how stale an unresolved pulse group can get. It
// must be well under the grouping window for timely coin resolution.
const tickInterval = 100 * time.Millisecond

// Acceptor pumps pulses from a source into the ledger and drives the
// grouping deadline.
type Acceptor struct {
	source PulseSource
	ledger PulseLedger
}

// NewAcceptor creates an Acceptor.
func NewAcceptor(source PulseSource, ledger PulseLedger) *Acceptor {
	return &Acceptor{source: source, ledger: ledger}
}

// Run consumes pulses until the context ends or the source fails. On a
// source failure it returns a *HardwareError; the caller logs it and the
// kiosk continues on manual credits.
func (a *Acceptor) Run(ctx context.Context) error {
	pulses, err := a.source.Pulses(ctx)
	if err != nil {
		return &HardwareError{Op: "open", Err: err}
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case at, ok := <-pulses:
			if !ok {
				return &HardwareError{Op: "read", Err: fmt.Errorf("pulse stream closed")}
			}
			a.ledger.Pulse(at)
		case now := <-ticker.C:
			a.ledger.Tick(now)
		}
	}
}

// LineSource reads edges from a GPIO line exposed as a character device
// (one byte per falling edge, as produced by the kiosk's gpiomon-style
// forwarder).
type LineSource struct {
	Device string
}

// Pulses opens the device and emits a timestamp per byte read. Closing
// the file is the only way to unblock a reader parked in a read, so a
// watcher closes it when the context ends or the read loop exits.
func (s *LineSource) Pulses(ctx context.Context) (<-chan time.Time, error) {
	f, err := os.Open(s.Device)
	if err != nil {
		return nil, err
	}

	out := make(chan time.Time, 64)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		f.Close()
	}()

	go func() {
		defer close(out)
		defer close(done)

		reader := bufio.NewReader(f)
		for {
			if _, err := reader.ReadByte(); err != nil {
				if ctx.Err() == nil {
					log.Printf("[COIN] pulse line read failed: %v", err)
				}
				return
			}
			select {
			case out <- time.Now():
			case <-ctx.Done():
				return
			default:
				// Ledger is behind; dropping the edge is safer than
				// blocking the hardware reader.
			}
		}
	}()

	return out, nil
}
