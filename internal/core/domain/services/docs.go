// Package services provides domain services that hold business rules spanning more
// than one domain object of the order system.
//
// The package includes:
//   - OrderLifecycle: resolves the effective status of an order, filters the transition
//     catalog down to the moves legal for it, validates transition input and executes
//     forward and backward transitions on a copy of the order
//
// Services are stateless values; they never persist anything and never mutate the
// orders passed to them.
package services
