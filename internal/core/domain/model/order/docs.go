// Package order provides the Order aggregate and the static vocabulary of its lifecycle:
// statuses, input kinds, the transition catalog and the change event.
//
// The package includes:
//   - Order: the aggregate root holding payment, shipping, tracking, weight and note data
//   - Status: the raw stage enum; EffectiveStatus layers the partial-payment overlay on top
//   - Catalog: an immutable table of forward and backward transitions keyed by (from, kind)
//   - TransitionInput: the payload captured by forward transitions and its completeness rules
//   - ChangedEvent: the notification carrying the complete order after every change
//
// Key business rules:
//   - Payments accumulate; the total never decreases while moving forward
//   - Shipping and tracking numbers are append-only
//   - Every backward transition removes exactly the data its forward counterpart added
//   - Delivered is terminal
//
// Choosing and executing transitions lives in the services package; this package only
// offers the mutations those executors compose.
package order
