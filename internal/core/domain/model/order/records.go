package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ShortfallLine records one product whose requested quantity exceeded
// available stock at submission. Shortfalls are kept as an ordered list, not
// a map, so serialization and iteration order stay deterministic.
type ShortfallLine struct {
	ProductID kernel.UUID
	SKU       string
	Requested int
	Available int
	Shortfall int
}

// ReservedLine records a stock decrement applied for this order. Cancellation
// restores exactly these quantities, which may be less than originally
// requested after a partial backorder approval.
type ReservedLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// HistoryEntry is one append-only status history record. Every legal
// transition appends exactly one entry.
type HistoryEntry struct {
	Status Status
	At     time.Time
	Actor  string
	Note   string
}

// CreditBypass is the audit record left on an order when a privileged actor
// overrode the credit gate.
type CreditBypass struct {
	Bypassed      bool
	Justification string
	Actor         string
}

// PackingRecord is a read snapshot of the packing sub-record. PackedSKUs is
// sorted so output is deterministic.
type PackingRecord struct {
	Sequence       int
	PackedSKUs     []string
	Version        int64
	LastActivityAt time.Time
}

// DeliveryRecord is a read snapshot of the delivery sub-record.
type DeliveryRecord struct {
	Sequence        int
	DriverID        *kernel.UUID
	DriverSequence  int
	DriverPacking   int
	ProofOfDelivery string
	DeliveredAt     *time.Time
}
