package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	location, err := kernel.NewGeoPoint(40.7128, -74.0060)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		"John Doe",
		"+1-555-0100",
		"123 Main St, New York",
		location,
		[]order.LineItem{
			{Name: "Margherita Pizza", Quantity: 2, UnitPrice: 12.50},
			{Name: "Garlic Bread", Quantity: 1, UnitPrice: 4.00},
		},
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	originalOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", originalOrder.ID(), originalOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, originalOrder))

	retrievedOrder, err := suite.repository.Get(ctx, originalOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(originalOrder.ID(), retrievedOrder.ID())
	suite.Equal("John Doe", retrievedOrder.CustomerName())
	suite.Equal("+1-555-0100", retrievedOrder.CustomerPhone())
	suite.Equal("123 Main St, New York", retrievedOrder.DeliveryAddress())
	suite.InDelta(40.7128, retrievedOrder.DeliveryLocation().Lat(), 1e-9)
	suite.InDelta(-74.0060, retrievedOrder.DeliveryLocation().Lng(), 1e-9)
	suite.Len(retrievedOrder.Items(), 2)
	suite.InDelta(29.0, retrievedOrder.TotalAmount(), 1e-9)
	suite.Equal(order.Pending, retrievedOrder.Status())
	suite.Nil(retrievedOrder.Agent())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrievedOrder, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusTransitionPersists() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	changedAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, changedAt))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrievedOrder.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	err := suite.repository.Update(ctx, testOrder)

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AgentAssignmentPersists() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	at := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, at))
	suite.Require().NoError(testOrder.ChangeStatus(order.Preparing, at))
	suite.Require().NoError(testOrder.ChangeStatus(order.ReadyForDelivery, at))

	agentID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignAgent(agentID, at))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.OutForDelivery, retrievedOrder.Status())
	suite.Require().NotNil(retrievedOrder.Agent())
	suite.True(retrievedOrder.Agent().IsEqual(agentID))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus_FiltersByStatus() {
	ctx := context.Background()

	pendingOrder := suite.createTestOrder()
	confirmedOrder := suite.createTestOrder()
	at := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(confirmedOrder.ChangeStatus(order.Confirmed, at))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, pendingOrder))
	suite.Require().NoError(suite.repository.Add(ctx, confirmedOrder))

	confirmed, err := suite.repository.GetAllInStatus(ctx, order.Confirmed)
	suite.Require().NoError(err)
	suite.Require().Len(confirmed, 1)
	suite.Equal(confirmedOrder.ID(), confirmed[0].ID())

	pending, err := suite.repository.GetAllInStatus(ctx, order.Pending)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(pendingOrder.ID(), pending[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetActiveForAgent_ReturnsOnlyOutForDelivery() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	at := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, at))
	suite.Require().NoError(testOrder.ChangeStatus(order.Preparing, at))
	suite.Require().NoError(testOrder.ChangeStatus(order.ReadyForDelivery, at))

	agentID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignAgent(agentID, at))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	active, err := suite.repository.GetActiveForAgent(ctx, agentID)
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), active.ID())

	// Once delivered, the agent has no active order.
	suite.Require().NoError(testOrder.ChangeStatus(order.Delivered, at))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	active, err = suite.repository.GetActiveForAgent(ctx, agentID)
	suite.Nil(active)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetActiveForAgent_IdleAgent_ReturnsNotFound() {
	ctx := context.Background()

	active, err := suite.repository.GetActiveForAgent(ctx, kernel.NewUUID())
	suite.Nil(active)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
