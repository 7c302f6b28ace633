package service

import "errors"

var (
	// ErrInvalidAmount is returned when a required amount is negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDenomination is returned when a coin value is not in the
	// accepted denomination set on the hardware-validated path.
	ErrInvalidDenomination = errors.New("invalid coin denomination")

	// ErrStaleSessionCredit is returned when a credit event belongs to a
	// session that has already been reset. The coin is dropped.
	ErrStaleSessionCredit = errors.New("credit for stale payment session")

	// ErrNoPendingCoin is returned when confirming with no coin pending.
	ErrNoPendingCoin = errors.New("no pending coin to confirm")

	// ErrInsufficientPayment is returned when printing is requested before
	// the session is fully paid.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrNoActiveJob is returned when an operation needs an uploaded file
	// and none is present.
	ErrNoActiveJob = errors.New("no file ready for printing")

	// ErrJobNotReady is returned when the current job is not in a state
	// that allows the operation.
	ErrJobNotReady = errors.New("job not in printable state")

	// ErrInvalidFileType is returned when an upload has a disallowed
	// extension.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileTooLarge is returned when an upload exceeds the size cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidPageRange is returned when a page range is out of bounds.
	ErrInvalidPageRange = errors.New("invalid page range")

	// ErrInvalidCopies is returned when the copy count is not positive.
	ErrInvalidCopies = errors.New("invalid number of copies")
)
