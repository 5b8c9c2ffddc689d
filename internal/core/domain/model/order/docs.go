// Package order implements the order aggregate and its status state machine.
//
// The package provides:
//   - Status: the order lifecycle state machine with per-status metadata,
//     a validated transition graph, and progress/remaining-time estimates
//   - Order: the aggregate root managing customer details, line items,
//     agent assignment, and graph-validated status changes
//
// Status is the single source of truth for which transitions are permitted;
// Order.ChangeStatus is the only mutation path, so an order can never hold a
// status reached through an illegal edge. Delivered and Cancelled orders are
// immutable.
package order
