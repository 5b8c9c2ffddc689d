package commands_test

import (
	"context"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// fixedNow is the pinned clock time used across handler tests.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderRepoMock) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderRepoMock) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderRepoMock) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *OrderRepoMock) GetActiveForAgent(ctx context.Context, agentID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type AgentRepoMock struct{ mock.Mock }

func (m *AgentRepoMock) Add(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AgentRepoMock) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AgentRepoMock) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *AgentRepoMock) GetAllActive(ctx context.Context) ([]*agent.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agent.Agent), args.Error(1)
}

// UnitOfWorkMock satisfies the order-only, agent-only and cross-aggregate
// unit of work interfaces so each test wires only the repositories it needs.
type UnitOfWorkMock struct{ mock.Mock }

func (m *UnitOfWorkMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *UnitOfWorkMock) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

type OrderUoWFactoryMock struct{ mock.Mock }

func (m *OrderUoWFactoryMock) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type AgentUoWFactoryMock struct{ mock.Mock }

func (m *AgentUoWFactoryMock) Create() commands.AgentUoW {
	args := m.Called()
	return args.Get(0).(commands.AgentUoW)
}

type UoWFactoryMock struct{ mock.Mock }

func (m *UoWFactoryMock) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(topic string, event any) {
	m.Called(topic, event)
}

func mustGeoPoint(lat, lng float64) kernel.GeoPoint {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return point
}

func testLineItems() []order.LineItem {
	return []order.LineItem{
		{Name: "Margherita Pizza", Quantity: 2, UnitPrice: 12.50},
		{Name: "Garlic Bread", Quantity: 1, UnitPrice: 4.00},
	}
}

func newTestOrder(status order.Status) *order.Order {
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"John Doe",
		"+1-555-0100",
		"123 Main St",
		mustGeoPoint(40.7128, -74.0060),
		testLineItems(),
		fixedNow,
	)
	if err != nil {
		panic(err)
	}

	// Walk the order forward through valid transitions.
	for _, step := range []order.Status{order.Confirmed, order.Preparing, order.ReadyForDelivery} {
		if o.Status() == status {
			return o
		}
		if err = o.ChangeStatus(step, fixedNow); err != nil {
			panic(err)
		}
	}
	return o
}

func newTestAgent() *agent.Agent {
	a, err := agent.NewAgent(
		kernel.NewUUID(),
		"Test Agent",
		"+1-555-0200",
		mustGeoPoint(40.7000, -74.0000),
		fixedNow,
	)
	if err != nil {
		panic(err)
	}
	return a
}
