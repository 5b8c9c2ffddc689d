package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportAgentLocationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	testAgent := newTestAgent()
	newPosition := mustGeoPoint(40.7200, -74.0100)
	cmd, err := commands.NewReportAgentLocationCommand(testAgent.ID(), newPosition)
	require.NoError(t, err)

	agentRepo := new(AgentRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(AgentUoWFactoryMock)
	publisher := new(PublisherMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Once(),
		agentRepo.On("Update", ctx, testAgent).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", events.TopicAgentLocationUpdate, events.AgentLocationUpdate{
		AgentID:  testAgent.ID(),
		Position: newPosition,
		At:       fixedNow,
	}).Once()

	handler := commands.NewReportAgentLocationCommandHandler(factory, publisher, fixedClock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, newPosition, testAgent.Position())
	assert.True(t, testAgent.IsActive())
	assert.Equal(t, fixedNow, testAgent.LastSeenAt())
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	agentRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestReportAgentLocationCommandHandler_Handle_UnknownAgent(t *testing.T) {
	ctx := t.Context()
	testAgent := newTestAgent()
	cmd, err := commands.NewReportAgentLocationCommand(testAgent.ID(), mustGeoPoint(40.72, -74.01))
	require.NoError(t, err)

	agentRepo := new(AgentRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(AgentUoWFactoryMock)
	publisher := new(PublisherMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).
			Return(nil, errs.NewObjectNotFoundError("agentID", testAgent.ID())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewReportAgentLocationCommandHandler(factory, publisher, fixedClock)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
