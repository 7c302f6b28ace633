package service

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"vendoprint/internal/config"
	"vendoprint/internal/domain"
)

// CreditHook is invoked after a credit has been applied, outside the
// ledger's lock. Used to record payment logs and play the coin cue.
type CreditHook func(value float64, source domain.CreditSource, snap domain.PaymentSnapshot)

// Ledger is the single source of truth for how much has been paid toward
// the current job. All mutations and reads go through one mutex so that
// concurrent coin pulses, manual credits, cost updates and status polls
// observe a single total order. One instance serves the whole kiosk.
type Ledger struct {
	mu sync.Mutex

	sessionID string
	required  float64
	paid      float64
	pending   float64 // hardware-detected coin awaiting confirmation

	accepted    map[float64]bool
	confirmMode bool

	// pulse grouping state, mutated only under mu
	debounce    time.Duration
	groupWindow time.Duration
	pulseCount  int
	lastPulse   time.Time

	hook CreditHook
}

// NewLedger creates a ledger with a fresh payment session.
func NewLedger(cfg config.CoinConfig, hook CreditHook) *Ledger {
	accepted := make(map[float64]bool, len(cfg.Values))
	for _, v := range cfg.Values {
		accepted[v] = true
	}
	return &Ledger{
		sessionID:   uuid.New().String(),
		accepted:    accepted,
		confirmMode: cfg.ConfirmMode,
		debounce:    cfg.DebounceWindow,
		groupWindow: cfg.GroupWindow,
		hook:        hook,
	}
}

// Session returns the current payment session token.
func (l *Ledger) Session() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessionID
}

// SetRequired sets the price due for the current session. Idempotent and
// cheap; called on every copies/range/color change. Never touches the
// paid amount.
func (l *Ledger) SetRequired(amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.required = amount
	return nil
}

// Credit records a coin of the given denomination and returns the new
// totals atomically. session may be empty to mean "the current session";
// a non-empty token from before a reset is rejected and the coin dropped.
//
// Denomination validation is asymmetric on purpose: the hardware path
// only accepts the configured coin set, while the manual/test path takes
// any positive value so the kiosk works without physical hardware.
// Out-of-set manual values are logged.
func (l *Ledger) Credit(session string, value float64, source domain.CreditSource) (domain.PaymentSnapshot, error) {
	l.mu.Lock()

	if session != "" && session != l.sessionID {
		l.mu.Unlock()
		log.Printf("[LEDGER] dropping %v %.2f credit for stale session %s", source, value, session)
		return domain.PaymentSnapshot{}, ErrStaleSessionCredit
	}

	if value <= 0 {
		l.mu.Unlock()
		return domain.PaymentSnapshot{}, ErrInvalidDenomination
	}

	if !l.accepted[value] {
		if source == domain.CreditSourceHardware {
			l.mu.Unlock()
			return domain.PaymentSnapshot{}, ErrInvalidDenomination
		}
		log.Printf("[LEDGER] coin value %.2f not in configured set, accepting anyway (source=%s)", value, source)
	}

	l.paid += value
	snap := l.snapshotLocked()
	l.mu.Unlock()

	if l.hook != nil {
		l.hook(value, source, snap)
	}
	return snap, nil
}

// Snapshot returns the paid/required totals and the print gate as one
// consistent view. Non-blocking; the browser polls this about once a
// second.
func (l *Ledger) Snapshot() domain.PaymentSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// AuthorizePrint re-evaluates the payment gate under the ledger's lock.
// This is the authoritative check: callers must invoke it immediately
// before submitting the job, never trusting a snapshot taken earlier.
func (l *Ledger) AuthorizePrint() (domain.PaymentSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := l.snapshotLocked()
	if !snap.CanPrint {
		return snap, ErrInsufficientPayment
	}
	return snap, nil
}

// Reset zeroes the paid amount, clears any pending coin and pulse state,
// and rotates the session token. Strictly ordered with Credit through the
// mutex: a coin inserted during the reset window fails the stale-session
// check and is treated as lost, with a logged warning, never credited to
// the wrong session.
func (l *Ledger) Reset() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetLocked()
}

// ResetIfSession resets the ledger only when the given session is still
// the current one. A terminal reset from a finished job must never tear
// down a successor session started by a newer upload; a superseded
// session has already been reset by whoever replaced it.
func (l *Ledger) ResetIfSession(session string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if session != l.sessionID {
		log.Printf("[LEDGER] skipping terminal reset for superseded session %s", session)
		return false
	}
	l.resetLocked()
	return true
}

// resetLocked zeroes all payment and pulse state and rotates the session
// token. Caller holds mu.
func (l *Ledger) resetLocked() string {
	l.paid = 0
	l.required = 0
	l.pending = 0
	l.pulseCount = 0
	l.lastPulse = time.Time{}
	l.sessionID = uuid.New().String()
	return l.sessionID
}

// Pulse records one edge from the coin acceptor line. A pulse arriving
// within the debounce window of the previous one is electrical noise and
// ignored. Pulses further apart than the grouping window belong to a new
// coin; a previous unresolved group is resolved first.
func (l *Ledger) Pulse(at time.Time) {
	var (
		credited float64
		snap     domain.PaymentSnapshot
	)

	l.mu.Lock()
	if l.pulseCount > 0 {
		gap := at.Sub(l.lastPulse)
		if gap < l.debounce {
			l.mu.Unlock()
			return
		}
		if gap >= l.groupWindow {
			credited, snap = l.resolveLocked()
			l.pulseCount = 0
		}
	}
	l.pulseCount++
	l.lastPulse = at
	l.mu.Unlock()

	if credited > 0 && l.hook != nil {
		l.hook(credited, domain.CreditSourceHardware, snap)
	}
}

// Tick resolves a pulse group that has been quiet for at least the
// grouping window. Called periodically by the acceptor loop; the deadline
// is evaluated against the stored timestamp, never by sleeping under the
// lock.
func (l *Ledger) Tick(now time.Time) {
	var (
		credited float64
		snap     domain.PaymentSnapshot
	)

	l.mu.Lock()
	if l.pulseCount == 0 || now.Sub(l.lastPulse) < l.groupWindow {
		l.mu.Unlock()
		return
	}
	credited, snap = l.resolveLocked()
	l.pulseCount = 0
	l.mu.Unlock()

	if credited > 0 && l.hook != nil {
		l.hook(credited, domain.CreditSourceHardware, snap)
	}
}

// ConfirmPending credits the coin currently held as pending and clears
// it. Only meaningful in confirm mode.
func (l *Ledger) ConfirmPending() (domain.PaymentSnapshot, error) {
	l.mu.Lock()
	if l.pending == 0 {
		l.mu.Unlock()
		return domain.PaymentSnapshot{}, ErrNoPendingCoin
	}
	value := l.pending
	l.pending = 0
	l.paid += value
	snap := l.snapshotLocked()
	l.mu.Unlock()

	if l.hook != nil {
		l.hook(value, domain.CreditSourceHardware, snap)
	}
	return snap, nil
}

// resolveLocked turns the current pulse group into a denomination and
// applies it. In confirm mode the coin becomes pending instead of being
// credited; a second coin replaces the previous pending one. Returns the
// credited value (0 if none) and the snapshot after it. Caller holds mu.
func (l *Ledger) resolveLocked() (float64, domain.PaymentSnapshot) {
	value := denominationForPulses(l.pulseCount)
	if value == 0 {
		return 0, domain.PaymentSnapshot{}
	}

	if l.confirmMode {
		if l.pending != 0 {
			log.Printf("[LEDGER] replacing pending coin %.2f with %.2f", l.pending, value)
		}
		l.pending = value
		return 0, domain.PaymentSnapshot{}
	}

	l.paid += value
	return value, l.snapshotLocked()
}

// snapshotLocked builds a snapshot. Caller holds mu.
func (l *Ledger) snapshotLocked() domain.PaymentSnapshot {
	remaining := l.required - l.paid
	if remaining < 0 {
		remaining = 0
	}
	return domain.PaymentSnapshot{
		SessionID:   l.sessionID,
		Paid:        l.paid,
		Required:    l.required,
		Remaining:   remaining,
		PendingCoin: l.pending,
		CanPrint:    l.required > 0 && l.paid >= l.required,
	}
}

// denominationForPulses maps the acceptor's pulse-per-coin encoding to a
// peso value. Matches the CH-926 style acceptor the kiosk ships with.
func denominationForPulses(count int) float64 {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 5
	case count == 3:
		return 10
	default:
		return 20
	}
}
