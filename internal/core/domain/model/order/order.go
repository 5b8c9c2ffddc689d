package order

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrCustomerNameIsRequired is returned when creating an order without a customer name.
	ErrCustomerNameIsRequired = errs.NewValueIsRequiredError("customerName")
	// ErrCustomerPhoneIsRequired is returned when creating an order without a contact phone.
	ErrCustomerPhoneIsRequired = errs.NewValueIsRequiredError("customerPhone")
	// ErrDeliveryAddressIsRequired is returned when creating an order without a delivery address.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("deliveryAddress")
	// ErrLineItemsAreRequired is returned when creating an order with no line items.
	ErrLineItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// LineItem is one ordered dish with its quantity and unit price.
// It is a plain value carried by the Order aggregate.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// validate checks the line item's business rules.
func (li LineItem) validate() error {
	if li.Name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	if li.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"item quantity", fmt.Errorf("%d is not greater than 0", li.Quantity))
	}
	if li.UnitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"item unit price", fmt.Errorf("%f is negative", li.UnitPrice))
	}
	return nil
}

// Order represents a food delivery order. It is the aggregate root that
// manages the order lifecycle from placement through delivery.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and customer contact details
//   - Must have at least one line item, each with positive quantity
//   - Status changes only through graph-validated transitions
//   - Becomes immutable once a terminal status is reached
//   - Can only be created through NewOrder or RestoreOrder
//
// The agent reference is non-owning: it identifies the delivery agent
// carrying the order while it is out for delivery.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerName is the recipient's display name
	customerName string

	// customerPhone is the recipient's contact number
	customerPhone string

	// deliveryAddress is the free-text destination address
	deliveryAddress string

	// deliveryLocation is the geocoded destination
	deliveryLocation kernel.GeoPoint

	// items are the ordered dishes
	items []LineItem

	// totalAmount is the order total, derived from the items at creation
	totalAmount float64

	// status is the current state in the order lifecycle
	status Status

	// agentID references the assigned delivery agent (nil if unassigned)
	agentID *kernel.UUID

	// createdAt is when the order was placed
	createdAt time.Time

	// statusChangedAt is when the status last changed
	statusChangedAt time.Time

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with validation.
// The total amount is derived from the line items. The caller supplies the
// creation time so the clock stays injectable for tests.
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	customerName string,
	customerPhone string,
	deliveryAddress string,
	deliveryLocation kernel.GeoPoint,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:          Pending,
		createdAt:       now,
		statusChangedAt: now,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setCustomerPhone(customerPhone),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryLocation(deliveryLocation),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	for _, item := range o.items {
		o.totalAmount += float64(item.Quantity) * item.UnitPrice
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// preserving its status, agent assignment and timestamps. The restored
// order behaves identically to one created through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerName string,
	customerPhone string,
	deliveryAddress string,
	deliveryLocation kernel.GeoPoint,
	items []LineItem,
	totalAmount float64,
	status Status,
	agentID *kernel.UUID,
	createdAt time.Time,
	statusChangedAt time.Time,
) (*Order, error) {
	o := &Order{
		totalAmount:     totalAmount,
		createdAt:       createdAt,
		statusChangedAt: statusChangedAt,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setCustomerPhone(customerPhone),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryLocation(deliveryLocation),
		o.setItems(items),
		o.setStatus(status),
		o.setAgentID(agentID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for directly instantiated structs.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerName returns the recipient's display name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CustomerPhone returns the recipient's contact number.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// DeliveryAddress returns the free-text destination address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryLocation returns the geocoded destination.
func (o *Order) DeliveryLocation() kernel.GeoPoint {
	return o.deliveryLocation
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// TotalAmount returns the order total.
func (o *Order) TotalAmount() float64 {
	return o.totalAmount
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Agent returns the assigned delivery agent's ID, or nil if unassigned.
func (o *Order) Agent() *kernel.UUID {
	return o.agentID
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// StatusChangedAt returns when the status last changed.
func (o *Order) StatusChangedAt() time.Time {
	return o.statusChangedAt
}

// ChangeStatus transitions the order to the target status.
//
// The transition must be permitted by the status graph; terminal orders
// reject every transition. On success the status-changed timestamp is
// updated to the supplied time.
//
// Returns:
//   - nil on a valid transition
//   - the validator's rejection reason otherwise, leaving the order untouched
func (o *Order) ChangeStatus(target Status, at time.Time) error {
	if err := o.status.ValidateTransition(target); err != nil {
		return err
	}

	o.status = target
	o.statusChangedAt = at
	return nil
}

// AssignAgent attaches a delivery agent and moves the order to
// OutForDelivery in one step. This is the coordinator's accept operation:
// it succeeds only from statuses that permit the OutForDelivery transition,
// so a second accept for the same order fails.
func (o *Order) AssignAgent(agentID kernel.UUID, at time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	if err := o.ChangeStatus(OutForDelivery, at); err != nil {
		return err
	}

	o.agentID = &agentID
	return nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerName(name string) error {
	if name == "" {
		return ErrCustomerNameIsRequired
	}
	o.customerName = name
	return nil
}

func (o *Order) setCustomerPhone(phone string) error {
	if phone == "" {
		return ErrCustomerPhoneIsRequired
	}
	o.customerPhone = phone
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setDeliveryLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.deliveryLocation = location
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrLineItemsAreRequired
	}
	for _, item := range items {
		if err := item.validate(); err != nil {
			return err
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setAgentID(agentID *kernel.UUID) error {
	if agentID == nil {
		o.agentID = nil
		return nil
	}
	if err := agentID.Validate(); err != nil {
		return err
	}
	id := *agentID
	o.agentID = &id
	return nil
}
