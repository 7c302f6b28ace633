package domain

// PrinterState represents the parsed CUPS printer state.
type PrinterState string

const (
	PrinterStateIdle     PrinterState = "idle"
	PrinterStatePrinting PrinterState = "printing"
	PrinterStateError    PrinterState = "error"
	PrinterStateUnknown  PrinterState = "unknown"
)

// PrinterStatus is the kiosk's view of the physical printer.
type PrinterStatus struct {
	PrinterName string       `json:"printer_name"`
	State       PrinterState `json:"state"`
	Online      bool         `json:"online"`
	ErrorStatus string       `json:"error_status,omitempty"`
}
