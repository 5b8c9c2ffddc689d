package agentrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/agentrepo"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
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

// AgentRepositoryIntegrationTestSuite provides integration tests for AgentRepository
// using PostgreSQL containers to verify database persistence behavior.
type AgentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *agentrepo.GormAgentRepository
	tracker    *MockAggregateTracker
}

func (suite *AgentRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&agentrepo.AgentDTO{}))
}

func (suite *AgentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE agents").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = agentrepo.NewGormAgentRepository(suite.db, suite.tracker)
}

func (suite *AgentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *AgentRepositoryIntegrationTestSuite) createTestAgent(name string) *agent.Agent {
	position, err := kernel.NewGeoPoint(40.7128, -74.0060)
	suite.Require().NoError(err)

	testAgent, err := agent.NewAgent(
		kernel.NewUUID(),
		name,
		"+1-555-0200",
		position,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return testAgent
}

func (suite *AgentRepositoryIntegrationTestSuite) TestAdd_ValidAgent_Success() {
	ctx := context.Background()

	testAgent := suite.createTestAgent("Mike Wilson")
	suite.tracker.On("TrackAggregate", testAgent.ID(), testAgent).Once()

	err := suite.repository.Add(ctx, testAgent)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&agentrepo.AgentDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGet_ExistingAgent_ReturnsAgent() {
	ctx := context.Background()

	originalAgent := suite.createTestAgent("Mike Wilson")
	suite.tracker.On("TrackAggregate", originalAgent.ID(), originalAgent).Once()
	suite.Require().NoError(suite.repository.Add(ctx, originalAgent))

	retrievedAgent, err := suite.repository.Get(ctx, originalAgent.ID())
	suite.Require().NoError(err)

	suite.Equal(originalAgent.ID(), retrievedAgent.ID())
	suite.Equal("Mike Wilson", retrievedAgent.Name())
	suite.Equal("+1-555-0200", retrievedAgent.Phone())
	suite.InDelta(40.7128, retrievedAgent.Position().Lat(), 1e-9)
	suite.InDelta(-74.0060, retrievedAgent.Position().Lng(), 1e-9)
	suite.True(retrievedAgent.IsActive())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGet_NonExistentAgent_ReturnsNotFoundError() {
	ctx := context.Background()

	retrievedAgent, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrievedAgent)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *AgentRepositoryIntegrationTestSuite) TestUpdate_PositionChangePersists() {
	ctx := context.Background()

	testAgent := suite.createTestAgent("Mike Wilson")
	suite.tracker.On("TrackAggregate", testAgent.ID(), testAgent).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testAgent))

	newPosition, err := kernel.NewGeoPoint(40.7306, -73.9866)
	suite.Require().NoError(err)
	reportedAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testAgent.ReportPosition(newPosition, reportedAt))
	suite.Require().NoError(suite.repository.Update(ctx, testAgent))

	retrievedAgent, err := suite.repository.Get(ctx, testAgent.ID())
	suite.Require().NoError(err)
	suite.InDelta(40.7306, retrievedAgent.Position().Lat(), 1e-9)
	suite.InDelta(-73.9866, retrievedAgent.Position().Lng(), 1e-9)
	suite.Equal(reportedAt, retrievedAgent.LastSeenAt().UTC())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestUpdate_DeactivationPersists() {
	ctx := context.Background()

	testAgent := suite.createTestAgent("Mike Wilson")
	suite.tracker.On("TrackAggregate", testAgent.ID(), testAgent).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testAgent))

	testAgent.Deactivate()
	suite.Require().NoError(suite.repository.Update(ctx, testAgent))

	retrievedAgent, err := suite.repository.Get(ctx, testAgent.ID())
	suite.Require().NoError(err)
	suite.False(retrievedAgent.IsActive())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGetAllActive_ExcludesInactiveAgents() {
	ctx := context.Background()

	activeAgent := suite.createTestAgent("Active Agent")
	inactiveAgent := suite.createTestAgent("Inactive Agent")
	inactiveAgent.Deactivate()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, activeAgent))
	suite.Require().NoError(suite.repository.Add(ctx, inactiveAgent))

	agents, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(agents, 1)
	suite.Equal(activeAgent.ID(), agents[0].ID())
}

func TestAgentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AgentRepositoryIntegrationTestSuite))
}
