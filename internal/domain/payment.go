package domain

// CreditSource identifies where a coin credit originated.
type CreditSource string

const (
	// CreditSourceHardware is the coin acceptor pulse line. Denominations
	// are validated strictly against the configured coin set.
	CreditSourceHardware CreditSource = "HARDWARE"

	// CreditSourceManual is the test/operator HTTP endpoint. Any positive
	// value is accepted so the kiosk is usable without physical hardware.
	CreditSourceManual CreditSource = "MANUAL"
)

// PaymentSnapshot is a consistent view of the payment session, taken under
// the ledger's exclusion domain. Paid and Required are never from two
// different moments.
type PaymentSnapshot struct {
	SessionID   string
	Paid        float64
	Required    float64
	Remaining   float64
	PendingCoin float64 // 0 when no coin awaits confirmation
	CanPrint    bool
}
