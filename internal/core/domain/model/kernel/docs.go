// Package kernel provides core domain primitives for the fulfillment engine.
// It implements the fundamental building blocks used throughout the domain
// model:
//
//   - UUID: validated entity identifier wrapping github.com/google/uuid
//   - Money: integer minor-currency-unit amounts with exact GST arithmetic
//   - GeoPoint: validated latitude/longitude pair for delivery destinations
//   - Zone: geographic delivery grouping with a fixed canonical order
//
// All types are immutable value objects. Zero values are invalid where a
// constructor exists; validation is available via each type's Validate method.
package kernel
