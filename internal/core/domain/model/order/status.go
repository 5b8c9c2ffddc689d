package order

import (
	"fmt"
	"math"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct delivery workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> ReadyForDelivery ──> OutForDelivery ──> Delivered
//	   │            │  │          │                │                    │
//	   │            │  └──────────┼────────────────┼──> OutForDelivery  └──> Failed ──> Returned
//	   └────────────┴─────────────┴────> Cancelled │    (agent accepts)
//	                                               └───> Cancelled
//
// Delivered and Cancelled are terminal: no transition leaves them, not even
// a self-transition. Confirmed orders may skip straight to OutForDelivery
// when a delivery agent accepts them directly. Failed and Returned allow a
// redelivery attempt back through OutForDelivery.
//
// Status is a value object that validates state transitions and carries
// static metadata (label, description, estimated duration) used for
// progress and ETA reporting.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first placed.
	// Orders in this status are waiting for restaurant confirmation.
	Pending

	// Confirmed indicates the restaurant accepted the order.
	// Confirmed orders are visible to nearby delivery agents.
	Confirmed

	// Preparing indicates the kitchen is working on the order.
	Preparing

	// ReadyForDelivery indicates the order is packed and waiting for pickup.
	ReadyForDelivery

	// OutForDelivery indicates a delivery agent is carrying the order
	// to the customer. Live tracking runs while in this status.
	OutForDelivery

	// Delivered indicates the order reached the customer.
	// This is a final state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was cancelled before delivery.
	// This is a final state with no further transitions allowed.
	Cancelled

	// Failed indicates a delivery attempt did not succeed.
	// Failed orders may be retried or returned.
	Failed

	// Returned indicates the order came back undelivered.
	// Returned orders may still be redelivered or cancelled.
	Returned
)

// StatusInfo bundles the static metadata attached to each status.
type StatusInfo struct {
	// Label is the short human-readable name shown to customers.
	Label string
	// Description explains what is happening to the order in this status.
	Description string
	// Icon names the pictogram the frontline views render for this status.
	Icon string
	// EstimatedMinutes is the typical time an order spends in this status.
	EstimatedMinutes int
	// Terminal reports whether the status permits no further transitions.
	Terminal bool
	// CanTransitionTo lists the statuses reachable from this one.
	CanTransitionTo []Status
}

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "unknown",
		Pending:          "pending",
		Confirmed:        "confirmed",
		Preparing:        "preparing",
		ReadyForDelivery: "ready_for_delivery",
		OutForDelivery:   "out_for_delivery",
		Delivered:        "delivered",
		Cancelled:        "cancelled",
		Failed:           "failed",
		Returned:         "returned",
	}
}

// getStatusInfos returns the metadata table for all valid statuses.
// Unknown is intentionally excluded as it is invalid.
func getStatusInfos() map[Status]StatusInfo {
	return map[Status]StatusInfo{
		Pending: {
			Label:            "Pending",
			Description:      "Order received and waiting for confirmation",
			Icon:             "clock",
			EstimatedMinutes: 5,
			CanTransitionTo:  []Status{Confirmed, Cancelled},
		},
		Confirmed: {
			Label:            "Confirmed",
			Description:      "Restaurant confirmed the order",
			Icon:             "check-circle",
			EstimatedMinutes: 10,
			CanTransitionTo:  []Status{Preparing, OutForDelivery, Cancelled},
		},
		Preparing: {
			Label:            "Preparing",
			Description:      "Kitchen is preparing the order",
			Icon:             "chef-hat",
			EstimatedMinutes: 20,
			CanTransitionTo:  []Status{ReadyForDelivery, Cancelled},
		},
		ReadyForDelivery: {
			Label:            "Ready for Delivery",
			Description:      "Order packed and waiting for a delivery agent",
			Icon:             "package",
			EstimatedMinutes: 5,
			CanTransitionTo:  []Status{OutForDelivery, Cancelled},
		},
		OutForDelivery: {
			Label:            "Out for Delivery",
			Description:      "Delivery agent is on the way to the customer",
			Icon:             "truck",
			EstimatedMinutes: 30,
			CanTransitionTo:  []Status{Delivered, Failed},
		},
		Delivered: {
			Label:            "Delivered",
			Description:      "Order delivered to the customer",
			Icon:             "home",
			EstimatedMinutes: 0,
			Terminal:         true,
			CanTransitionTo:  []Status{},
		},
		Cancelled: {
			Label:            "Cancelled",
			Description:      "Order was cancelled",
			Icon:             "x-circle",
			EstimatedMinutes: 0,
			Terminal:         true,
			CanTransitionTo:  []Status{},
		},
		Failed: {
			Label:            "Delivery Failed",
			Description:      "Delivery attempt did not succeed",
			Icon:             "alert-triangle",
			EstimatedMinutes: 0,
			CanTransitionTo:  []Status{OutForDelivery, Returned, Cancelled},
		},
		Returned: {
			Label:            "Returned",
			Description:      "Order returned undelivered",
			Icon:             "rotate-ccw",
			EstimatedMinutes: 0,
			CanTransitionTo:  []Status{OutForDelivery, Cancelled},
		},
	}
}

// canonicalFlow is the happy-path sequence of statuses used for progress
// and remaining-time estimates. Cancelled, Failed and Returned sit outside
// the flow and contribute no downstream estimate.
func canonicalFlow() []Status {
	return []Status{Pending, Confirmed, Preparing, ReadyForDelivery, OutForDelivery, Delivered}
}

// StatusFromString parses the persisted/wire representation of a status.
// Returns an error for unknown values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusInfos()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "out_for_delivery", …).
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Info returns the static metadata for the status.
// Returns an error only for invalid status values, which indicates a
// programmer error rather than a runtime condition.
func (s Status) Info() (StatusInfo, error) {
	info, ok := getStatusInfos()[s]
	if !ok {
		return StatusInfo{}, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return info, nil
}

// IsTerminal reports whether the status permits no further transitions.
// Only Delivered and Cancelled are terminal.
func (s Status) IsTerminal() bool {
	info, ok := getStatusInfos()[s]
	return ok && info.Terminal
}

// CanTransitionTo reports whether the target status is a member of this
// status's transition set. Invalid statuses can transition nowhere.
func (s Status) CanTransitionTo(target Status) bool {
	info, ok := getStatusInfos()[s]
	if !ok {
		return false
	}
	for _, candidate := range info.CanTransitionTo {
		if candidate == target {
			return true
		}
	}
	return false
}

// ValidateTransition checks whether moving from this status to the target
// is permitted by the transition graph.
//
// Two hard rules apply on top of graph membership:
//   - no transition leaves a terminal status, including a self-transition
//   - both statuses must be valid members of the state machine
//
// Returns:
//   - nil if the transition is allowed
//   - an error carrying the rejection reason otherwise
func (s Status) ValidateTransition(target Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("order is already %s and permits no further transitions", s),
		)
	}

	if !s.CanTransitionTo(target) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("transition from %s to %s is not permitted", s, target),
		)
	}

	return nil
}

// EstimatedRemainingMinutes sums this status's estimated duration plus the
// estimates of all downstream statuses along the canonical flow. Statuses
// outside the canonical flow contribute only their own estimate, which is
// zero for all of them.
func (s Status) EstimatedRemainingMinutes() int {
	flow := canonicalFlow()
	index := -1
	for i, status := range flow {
		if status == s {
			index = i
			break
		}
	}

	if index < 0 {
		info, ok := getStatusInfos()[s]
		if !ok {
			return 0
		}
		return info.EstimatedMinutes
	}

	infos := getStatusInfos()
	total := 0
	for _, status := range flow[index:] {
		total += infos[status].EstimatedMinutes
	}
	return total
}

// ProgressPercent maps the status onto 0..100 along the canonical flow:
// the status's index divided by the flow length minus one, rounded.
// Delivered is always 100; statuses outside the flow report 0.
func (s Status) ProgressPercent() int {
	if s == Delivered {
		return 100
	}

	flow := canonicalFlow()
	for i, status := range flow {
		if status == s {
			return int(math.Round(float64(i) / float64(len(flow)-1) * 100))
		}
	}
	return 0
}
