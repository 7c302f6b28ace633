package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"vendoprint/internal/config"
	"vendoprint/internal/domain"
)

func testCoinConfig(confirm bool) config.CoinConfig {
	return config.CoinConfig{
		Values:         []float64{1, 5, 10, 20},
		DebounceWindow: 10 * time.Millisecond,
		GroupWindow:    500 * time.Millisecond,
		ConfirmMode:    confirm,
	}
}

func TestLedger_SetRequiredIsIdempotent(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)

	if _, err := ledger.Credit("", 5, domain.CreditSourceManual); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ledger.SetRequired(20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.SetRequired(20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := ledger.Snapshot()
	if snap.Required != 20 {
		t.Errorf("expected required 20, got %.2f", snap.Required)
	}
	if snap.Paid != 5 {
		t.Errorf("set_required must not alter paid amount, got %.2f", snap.Paid)
	}
}

func TestLedger_SetRequiredRejectsNegative(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.SetRequired(20)

	if err := ledger.SetRequired(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if snap := ledger.Snapshot(); snap.Required != 20 {
		t.Errorf("required changed after rejected update: %.2f", snap.Required)
	}
}

func TestLedger_CreditsAccumulateToExactTotal(t *testing.T) {
	t.Parallel()

	// Price: 4 B&W pages x 5 pesos.
	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.SetRequired(20)

	for _, coin := range []float64{10, 5, 5} {
		if _, err := ledger.Credit("", coin, domain.CreditSourceHardware); err != nil {
			t.Fatalf("credit %.2f: %v", coin, err)
		}
	}

	snap := ledger.Snapshot()
	if snap.Paid != 20 {
		t.Errorf("expected paid 20.00, got %.2f", snap.Paid)
	}
	if !snap.CanPrint {
		t.Error("expected can_print after full payment")
	}
	if snap.Remaining != 0 {
		t.Errorf("expected remaining 0, got %.2f", snap.Remaining)
	}
}

func TestLedger_ConcurrentCreditsAreNeverLost(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)

	const workers = 50
	const perWorker = 20

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		source := domain.CreditSourceHardware
		if i%2 == 0 {
			source = domain.CreditSourceManual
		}
		go func(src domain.CreditSource) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := ledger.Credit("", 5, src); err != nil {
					t.Errorf("credit failed: %v", err)
					return
				}
			}
		}(source)
	}
	wg.Wait()

	want := float64(workers * perWorker * 5)
	if snap := ledger.Snapshot(); snap.Paid != want {
		t.Errorf("expected paid %.2f, got %.2f (credits lost or double counted)", want, snap.Paid)
	}
}

func TestLedger_TwoSimultaneousCreditsBothReflected(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			<-start
			ledger.Credit("", 5, domain.CreditSourceHardware)
		}()
	}
	close(start)
	wg.Wait()

	if snap := ledger.Snapshot(); snap.Paid != 10 {
		t.Errorf("expected paid 10, got %.2f", snap.Paid)
	}
}

func TestLedger_ResetIsolatesSessions(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.SetRequired(20)

	if _, err := ledger.Credit("", 5, domain.CreditSourceManual); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ledger.Reset()

	if _, err := ledger.Credit("", 5, domain.CreditSourceManual); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap := ledger.Snapshot(); snap.Paid != 5 {
		t.Errorf("expected post-reset paid 5.00, got %.2f", snap.Paid)
	}
}

func TestLedger_ResetIfSessionOnlyResetsItsOwnSession(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	superseded := ledger.Session()

	// A newer upload takes over and the next customer starts paying.
	ledger.Reset()
	ledger.SetRequired(20)
	ledger.Credit("", 5, domain.CreditSourceManual)

	if ledger.ResetIfSession(superseded) {
		t.Fatal("reset for a superseded session must be a no-op")
	}
	snap := ledger.Snapshot()
	if snap.Paid != 5 || snap.Required != 20 {
		t.Errorf("superseded reset mutated state: paid=%.2f required=%.2f", snap.Paid, snap.Required)
	}

	if !ledger.ResetIfSession(ledger.Session()) {
		t.Fatal("reset for the current session must apply")
	}
	if snap := ledger.Snapshot(); snap.Paid != 0 || snap.Required != 0 {
		t.Errorf("current-session reset left state behind: paid=%.2f required=%.2f", snap.Paid, snap.Required)
	}
}

func TestLedger_StaleSessionCreditIsDropped(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	stale := ledger.Session()
	ledger.Reset()

	_, err := ledger.Credit(stale, 5, domain.CreditSourceHardware)
	if !errors.Is(err, ErrStaleSessionCredit) {
		t.Fatalf("expected ErrStaleSessionCredit, got %v", err)
	}

	if snap := ledger.Snapshot(); snap.Paid != 0 {
		t.Errorf("stale credit mutated the accumulator: %.2f", snap.Paid)
	}
}

func TestLedger_PrintGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		required float64
		credits  []float64
		want     bool
	}{
		{"no price set", 0, []float64{5}, false},
		{"unpaid", 20, nil, false},
		{"partially paid", 20, []float64{10}, false},
		{"exactly paid", 20, []float64{10, 10}, true},
		{"overpaid", 20, []float64{20, 5}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := NewLedger(testCoinConfig(false), nil)
			ledger.SetRequired(tt.required)
			for _, coin := range tt.credits {
				if _, err := ledger.Credit("", coin, domain.CreditSourceManual); err != nil {
					t.Fatalf("credit %.2f: %v", coin, err)
				}
			}

			if snap := ledger.Snapshot(); snap.CanPrint != tt.want {
				t.Errorf("can_print = %v, want %v (paid=%.2f required=%.2f)",
					snap.CanPrint, tt.want, snap.Paid, snap.Required)
			}
		})
	}
}

func TestLedger_HardwarePathRejectsUnknownDenomination(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.SetRequired(20)

	_, err := ledger.Credit("", 3, domain.CreditSourceHardware)
	if !errors.Is(err, ErrInvalidDenomination) {
		t.Fatalf("expected ErrInvalidDenomination, got %v", err)
	}

	if snap := ledger.Snapshot(); snap.Paid != 0 {
		t.Errorf("rejected credit mutated paid amount: %.2f", snap.Paid)
	}
}

func TestLedger_ManualPathAcceptsAnyPositiveValue(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)

	if _, err := ledger.Credit("", 3, domain.CreditSourceManual); err != nil {
		t.Fatalf("manual path should accept off-set values, got %v", err)
	}

	if _, err := ledger.Credit("", 0, domain.CreditSourceManual); !errors.Is(err, ErrInvalidDenomination) {
		t.Fatalf("expected ErrInvalidDenomination for zero, got %v", err)
	}
	if _, err := ledger.Credit("", -5, domain.CreditSourceManual); !errors.Is(err, ErrInvalidDenomination) {
		t.Fatalf("expected ErrInvalidDenomination for negative, got %v", err)
	}

	if snap := ledger.Snapshot(); snap.Paid != 3 {
		t.Errorf("expected paid 3, got %.2f", snap.Paid)
	}
}

func TestLedger_OverpaymentStillAccumulates(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.SetRequired(5)

	ledger.Credit("", 20, domain.CreditSourceManual)
	snap, err := ledger.Credit("", 5, domain.CreditSourceManual)
	if err != nil {
		t.Fatalf("overpayment credit rejected: %v", err)
	}

	if snap.Paid != 25 {
		t.Errorf("expected paid 25, got %.2f", snap.Paid)
	}
	if !snap.CanPrint {
		t.Error("expected can_print to remain true")
	}
}

func TestLedger_CreditWithoutPriceDoesNotOpenGate(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)

	snap, err := ledger.Credit("", 5, domain.CreditSourceManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Paid != 5 {
		t.Errorf("expected paid 5, got %.2f", snap.Paid)
	}
	if snap.CanPrint {
		t.Error("can_print must stay false until a price is established")
	}
}

func TestLedger_AuthorizePrint(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.SetRequired(10)

	if _, err := ledger.AuthorizePrint(); !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}

	ledger.Credit("", 10, domain.CreditSourceManual)

	snap, err := ledger.AuthorizePrint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.CanPrint {
		t.Error("authorized snapshot must report can_print")
	}
}

// ──────────────────────────────────────────────
// PULSE DEBOUNCE AND GROUPING
// ──────────────────────────────────────────────

func TestLedger_PulsesWithinDebounceWindowAreOneLogicalPulse(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	base := time.Now()

	ledger.Pulse(base)
	ledger.Pulse(base.Add(5 * time.Millisecond)) // electrical noise

	ledger.Tick(base.Add(time.Second))

	// One logical pulse resolves to the 1 peso coin.
	if snap := ledger.Snapshot(); snap.Paid != 1 {
		t.Errorf("expected paid 1 from a single debounced pulse, got %.2f", snap.Paid)
	}
}

func TestLedger_PulsesOutsideDebounceWindowAreCounted(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	base := time.Now()

	ledger.Pulse(base)
	ledger.Pulse(base.Add(50 * time.Millisecond))

	ledger.Tick(base.Add(time.Second))

	// Two logical pulses encode the 5 peso coin.
	if snap := ledger.Snapshot(); snap.Paid != 5 {
		t.Errorf("expected paid 5 from two pulses, got %.2f", snap.Paid)
	}
}

func TestLedger_PulseCountsMapToDenominations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pulses int
		want   float64
	}{
		{1, 1},
		{2, 5},
		{3, 10},
		{4, 20},
		{6, 20},
	}

	for _, tt := range tests {
		ledger := NewLedger(testCoinConfig(false), nil)
		base := time.Now()
		for i := 0; i < tt.pulses; i++ {
			ledger.Pulse(base.Add(time.Duration(i) * 20 * time.Millisecond))
		}
		ledger.Tick(base.Add(time.Second))

		if snap := ledger.Snapshot(); snap.Paid != tt.want {
			t.Errorf("%d pulses: expected %.2f, got %.2f", tt.pulses, tt.want, snap.Paid)
		}
	}
}

func TestLedger_TickBeforeGroupWindowDoesNotResolve(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	base := time.Now()

	ledger.Pulse(base)
	ledger.Tick(base.Add(100 * time.Millisecond))

	if snap := ledger.Snapshot(); snap.Paid != 0 {
		t.Errorf("group resolved before the window elapsed: paid %.2f", snap.Paid)
	}
}

func TestLedger_TickWithNoPulsesResolvesToNoCoin(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	ledger.Tick(time.Now())
	ledger.Tick(time.Now().Add(time.Second))

	if snap := ledger.Snapshot(); snap.Paid != 0 {
		t.Errorf("ticks without pulses credited %.2f", snap.Paid)
	}
}

func TestLedger_LatePulseResolvesPreviousGroupFirst(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	base := time.Now()

	// First coin: two pulses. No tick fires before the second coin
	// starts, so the pulse path must settle the first group itself.
	ledger.Pulse(base)
	ledger.Pulse(base.Add(30 * time.Millisecond))

	ledger.Pulse(base.Add(700 * time.Millisecond))
	ledger.Tick(base.Add(2 * time.Second))

	// 5 pesos from the first group, 1 peso from the second.
	if snap := ledger.Snapshot(); snap.Paid != 6 {
		t.Errorf("expected paid 6, got %.2f", snap.Paid)
	}
}

func TestLedger_ResetClearsPulseState(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(false), nil)
	base := time.Now()

	ledger.Pulse(base)
	ledger.Reset()
	ledger.Tick(base.Add(time.Second))

	if snap := ledger.Snapshot(); snap.Paid != 0 {
		t.Errorf("pulse from before reset credited the new session: %.2f", snap.Paid)
	}
}

// ──────────────────────────────────────────────
// CONFIRM MODE
// ──────────────────────────────────────────────

func TestLedger_ConfirmModeHoldsCoinAsPending(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(true), nil)
	base := time.Now()

	ledger.Pulse(base)
	ledger.Pulse(base.Add(30 * time.Millisecond))
	ledger.Tick(base.Add(time.Second))

	snap := ledger.Snapshot()
	if snap.Paid != 0 {
		t.Errorf("confirm mode credited without confirmation: %.2f", snap.Paid)
	}
	if snap.PendingCoin != 5 {
		t.Errorf("expected pending coin 5, got %.2f", snap.PendingCoin)
	}

	confirmed, err := ledger.ConfirmPending()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmed.Paid != 5 || confirmed.PendingCoin != 0 {
		t.Errorf("confirm left paid=%.2f pending=%.2f", confirmed.Paid, confirmed.PendingCoin)
	}
}

func TestLedger_ConfirmModeNewCoinReplacesPending(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(true), nil)
	base := time.Now()

	// First coin: one pulse -> 1 peso pending.
	ledger.Pulse(base)
	ledger.Tick(base.Add(time.Second))

	// Second coin: three pulses -> replaces the pending 1 peso.
	second := base.Add(2 * time.Second)
	for i := 0; i < 3; i++ {
		ledger.Pulse(second.Add(time.Duration(i) * 30 * time.Millisecond))
	}
	ledger.Tick(second.Add(time.Second))

	if snap := ledger.Snapshot(); snap.PendingCoin != 10 {
		t.Errorf("expected pending 10 after replacement, got %.2f", snap.PendingCoin)
	}
}

func TestLedger_ConfirmWithoutPendingFails(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(testCoinConfig(true), nil)

	if _, err := ledger.ConfirmPending(); !errors.Is(err, ErrNoPendingCoin) {
		t.Fatalf("expected ErrNoPendingCoin, got %v", err)
	}
}

// ──────────────────────────────────────────────
// CREDIT HOOK
// ──────────────────────────────────────────────

func TestLedger_HookObservesEveryCredit(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var values []float64
	var sources []domain.CreditSource

	hook := func(value float64, source domain.CreditSource, snap domain.PaymentSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		values = append(values, value)
		sources = append(sources, source)
	}

	ledger := NewLedger(testCoinConfig(false), hook)

	ledger.Credit("", 5, domain.CreditSourceManual)

	base := time.Now()
	ledger.Pulse(base)
	ledger.Tick(base.Add(time.Second))

	mu.Lock()
	defer mu.Unlock()
	if len(values) != 2 {
		t.Fatalf("expected 2 hook calls, got %d", len(values))
	}
	if values[0] != 5 || sources[0] != domain.CreditSourceManual {
		t.Errorf("first hook call: %v %v", values[0], sources[0])
	}
	if values[1] != 1 || sources[1] != domain.CreditSourceHardware {
		t.Errorf("second hook call: %v %v", values[1], sources[1])
	}
}
