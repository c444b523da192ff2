// Package kernel provides the value objects shared by the order lifecycle model.
//
// The package includes:
//   - UUID: an identifier wrapping github.com/google/uuid whose zero value is invalid
//   - Money: a non-negative monetary amount backed by github.com/shopspring/decimal
//
// Both types are immutable and must be built through their constructors; zero values
// fail Validate so that unconstructed values never reach the aggregates.
package kernel
