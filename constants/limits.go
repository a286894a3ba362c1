package constants

import "time"

// Bulk generation quantity bounds.
const (
	MinRequestedQty     = 6
	MaxRequestedQty     = 50
	DefaultRequestedQty = 10
)

// Upstream call budget.
const (
	MaxUpstreamAttempts = 2
	UpstreamRetryDelay  = 1200 * time.Millisecond
)

// Per call-site upstream timeouts.
const (
	InventoryCallTimeout      = 20 * time.Second
	InvoiceCallTimeout        = 20 * time.Second
	ClassificationCallTimeout = 18 * time.Second
)

// ClampQty bounds a requested product count to [MinRequestedQty, MaxRequestedQty].
func ClampQty(n int) int {
	if n < MinRequestedQty {
		return MinRequestedQty
	}
	if n > MaxRequestedQty {
		return MaxRequestedQty
	}
	return n
}
