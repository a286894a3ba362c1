package constants

// Outcome is the terminal state of one pipeline run; used as a metrics label.
type Outcome string

// Stable values (exported as label values, do not rename).
const (
	OutcomeOK       Outcome = "ok"       // structured result produced
	OutcomeEmpty    Outcome = "empty"    // bulk run where no row survived validation
	OutcomeSentinel Outcome = "sentinel" // reply unparseable, error record returned
	OutcomeInvalid  Outcome = "invalid"  // rejected before any upstream call
	OutcomeFailed   Outcome = "failed"   // upstream or parse failure surfaced to caller
)
