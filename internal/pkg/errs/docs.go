// Package errs provides standardized error types for the fulfillment engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the engine's whole error taxonomy:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: input validation
//   - ObjectNotFoundError: unknown order/customer/product/route
//   - InvalidTransitionError: illegal order status change
//   - CreditExceededError / InsufficientStockError: financial and stock gates
//   - AlreadyProcessedError: idempotent no-ops surfaced explicitly
//   - VersionConflictError: optimistic concurrency failures on packing records
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrCreditExceeded)
//   - A struct type with fields for error details
//   - Constructor functions, with and without cause where a cause makes sense
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classification works
//
// All errors are returned before any side effect: a caller that receives an
// error from this package can assume no state was mutated.
package errs
