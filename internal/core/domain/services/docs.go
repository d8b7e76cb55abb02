// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fulfillment system. It implements
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - CreditLedger: computes available credit from open order exposure and
//     enforces the credit gate at order submission
//   - Sequencer: turns per-zone solver results into a globally sequenced
//     delivery route and its last-in-first-out packing order
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
