// Package order implements the Order aggregate root: the canonical status
// state machine, GST-inclusive money totals computed from line-item
// snapshots, the backorder approval sub-state, the optimistically versioned
// packing sub-record, and the delivery sub-record with per-driver sequencing
// fields.
//
// The aggregate enforces these invariants:
//   - status moves only along the fixed adjacency table, and every legal
//     transition appends exactly one status history entry
//   - terminal orders (delivered, cancelled) accept no further mutation
//   - backorder resolution is a one-way gate; re-resolving returns
//     AlreadyProcessedError with no state change
//   - pack-state toggles require the current packing version; stale writers
//     get VersionConflictError and must re-read
//   - sequencing writes touch only sequence sub-fields, never the packed set
//     or the status
package order
