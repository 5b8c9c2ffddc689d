package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to place a new food order.
// Encapsulates the customer details, delivery destination and line items.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	location, _ := kernel.NewGeoPoint(40.7128, -74.0060)
//	items := []order.LineItem{{Name: "Margherita", Quantity: 1, UnitPrice: 12.50}}
//	cmd, err := NewCreateOrderCommand(orderID, "John Doe", "+1-555-0100", "123 Main St", location, items)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, clock)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerName     string
	customerPhone    string
	deliveryAddress  string
	deliveryLocation kernel.GeoPoint
	items            []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates the order ID, delivery location and that at least one line item
// is present. Item-level validation is delegated to the order aggregate.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerName string,
	customerPhone string,
	deliveryAddress string,
	deliveryLocation kernel.GeoPoint,
	items []order.LineItem,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		customerName:    customerName,
		customerPhone:   customerPhone,
		deliveryAddress: deliveryAddress,
		items:           items,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setDeliveryLocation(deliveryLocation),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerName returns the ordering customer's name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the customer's contact phone number.
func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// DeliveryAddress returns the human-readable delivery address.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// DeliveryLocation returns the delivery destination coordinates.
func (c CreateOrderCommand) DeliveryLocation() kernel.GeoPoint {
	return c.deliveryLocation
}

// Items returns the ordered line items.
func (c CreateOrderCommand) Items() []order.LineItem {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setDeliveryLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.deliveryLocation = location
	return nil
}
