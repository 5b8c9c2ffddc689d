package postgres_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/agentrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction boundaries across the
// order and agent repositories using a real PostgreSQL container.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
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

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &agentrepo.AgentDTO{}))
	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, agents").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	location, err := kernel.NewGeoPoint(40.7128, -74.0060)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		"John Doe",
		"+1-555-0100",
		"123 Main St",
		location,
		[]order.LineItem{{Name: "Margherita Pizza", Quantity: 1, UnitPrice: 12.50}},
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestAgent() *agent.Agent {
	position, err := kernel.NewGeoPoint(40.7000, -74.0000)
	suite.Require().NoError(err)

	testAgent, err := agent.NewAgent(
		kernel.NewUUID(),
		"Mike Wilson",
		"+1-555-0200",
		position,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return testAgent
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	// Begin is idempotent while a transaction is open.
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	// Commit without an open transaction fails.
	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder()
	testAgent := suite.createTestAgent()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.AgentRepository().Add(ctx, testAgent))
	suite.Require().NoError(uow.Commit(ctx))

	var orderCount, agentCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&agentrepo.AgentDTO{}).Count(&agentCount).Error)
	suite.Equal(int64(1), orderCount)
	suite.Equal(int64(1), agentCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.createTestOrder()))
	suite.Require().NoError(uow.AgentRepository().Add(ctx, suite.createTestAgent()))
	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount, agentCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&agentrepo.AgentDTO{}).Count(&agentCount).Error)
	suite.Equal(int64(0), orderCount)
	suite.Equal(int64(0), agentCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_ExecutesImmediately() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Repositories obtained without Begin write directly.
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.createTestOrder()))

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryWorkflow() {
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Microsecond)

	testOrder := suite.createTestOrder()
	testAgent := suite.createTestAgent()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.AgentRepository().Add(ctx, testAgent))
	suite.Require().NoError(uow.Commit(ctx))

	// Restaurant flow up to ready, then agent accepts and delivers.
	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, at))
	suite.Require().NoError(testOrder.ChangeStatus(order.Preparing, at))
	suite.Require().NoError(testOrder.ChangeStatus(order.ReadyForDelivery, at))
	suite.Require().NoError(testOrder.AssignAgent(testAgent.ID(), at))

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	active, err := suite.factory.Create().OrderRepository().GetActiveForAgent(ctx, testAgent.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), active.ID())

	suite.Require().NoError(testOrder.ChangeStatus(order.Delivered, at))
	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, stored.Status())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
