package commands_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdvanceDeliveriesCommandHandler_Handle_MovesAgentCloser(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAdvanceDeliveriesCommand()

	testAgent := newTestAgent()
	testOrder := newTestOrder(order.ReadyForDelivery)
	require.NoError(t, testOrder.AssignAgent(testAgent.ID(), fixedNow))

	startKm, err := testAgent.Position().DistanceKm(testOrder.DeliveryLocation())
	require.NoError(t, err)

	agentRepo := new(AgentRepoMock)
	orderRepo := new(OrderRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)
	publisher := new(PublisherMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllInStatus", ctx, order.OutForDelivery).
			Return([]*order.Order{testOrder}, nil).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Once(),
		agentRepo.On("Update", ctx, testAgent).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", events.TopicLiveLocationUpdate, mock.AnythingOfType("events.LiveLocationUpdate")).Once()

	handler := commands.NewAdvanceDeliveriesCommandHandler(factory, publisher, fixedClock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	endKm, err := testAgent.Position().DistanceKm(testOrder.DeliveryLocation())
	require.NoError(t, err)
	// One step covers 10% of the remaining distance.
	assert.Less(t, endKm, startKm)
	assert.InDelta(t, startKm*0.9, endKm, startKm*0.01)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	agentRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAdvanceDeliveriesCommandHandler_Handle_NoActiveDeliveries(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAdvanceDeliveriesCommand()

	agentRepo := new(AgentRepoMock)
	orderRepo := new(OrderRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)
	publisher := new(PublisherMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllInStatus", ctx, order.OutForDelivery).
			Return([]*order.Order{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAdvanceDeliveriesCommandHandler(factory, publisher, fixedClock)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestAdvanceDeliveriesCommandHandler_Handle_RepeatedStepsConverge(t *testing.T) {
	ctx := t.Context()

	testAgent := newTestAgent()
	testOrder := newTestOrder(order.ReadyForDelivery)
	require.NoError(t, testOrder.AssignAgent(testAgent.ID(), fixedNow))

	agentRepo := new(AgentRepoMock)
	orderRepo := new(OrderRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)
	publisher := new(PublisherMock)

	const steps = 50
	factory.On("Create").Return(uow).Times(steps)
	uow.On("Begin", ctx).Return(nil).Times(steps)
	uow.On("AgentRepository").Return(agentRepo).Times(steps)
	uow.On("OrderRepository").Return(orderRepo).Times(steps)
	orderRepo.On("GetAllInStatus", ctx, order.OutForDelivery).
		Return([]*order.Order{testOrder}, nil).Times(steps)
	agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Times(steps)
	agentRepo.On("Update", ctx, testAgent).Return(nil).Times(steps)
	uow.On("Commit", ctx).Return(nil).Times(steps)
	uow.On("Rollback", ctx).Return(nil).Times(steps)
	publisher.On("Publish", events.TopicLiveLocationUpdate, mock.AnythingOfType("events.LiveLocationUpdate")).
		Times(steps)

	handler := commands.NewAdvanceDeliveriesCommandHandler(factory, publisher, fixedClock)
	for range steps {
		require.NoError(t, handler.Handle(ctx, commands.NewAdvanceDeliveriesCommand()))
	}

	remainingKm, err := testAgent.Position().DistanceKm(testOrder.DeliveryLocation())
	require.NoError(t, err)
	// 0.9^50 of roughly 1.5 km start distance is well under 10 meters.
	assert.Less(t, remainingKm, 0.01)
}

func TestAdvanceDeliveriesCommandHandler_Handle_GetOrdersError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAdvanceDeliveriesCommand()

	agentRepo := new(AgentRepoMock)
	orderRepo := new(OrderRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)
	publisher := new(PublisherMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllInStatus", ctx, order.OutForDelivery).
			Return(nil, errors.New("repository error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAdvanceDeliveriesCommandHandler(factory, publisher, fixedClock)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository error")
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAdvanceDeliveriesCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.AdvanceDeliveriesCommand{} // not constructed properly
	factory := new(UoWFactoryMock)
	publisher := new(PublisherMock)

	handler := commands.NewAdvanceDeliveriesCommandHandler(factory, publisher, fixedClock)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be created via NewAdvanceDeliveriesCommand constructor")
}
