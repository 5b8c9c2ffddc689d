package cmd

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/geofence"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/jobs"
	"fooddelivery/internal/pkg/eventbus"
	"fooddelivery/internal/tracking"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	bus        *eventbus.Bus
	simulator  *tracking.Simulator
	logger     *slog.Logger
	now        commands.Clock
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	bus := eventbus.New()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	simulator, err := tracking.NewSimulator(
		services.NewRoutePlanner(rng),
		bus,
		demoZones(),
		rng,
		time.Now,
		logger,
	)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		bus:        bus,
		simulator:  simulator,
		logger:     logger,
		now:        time.Now,
	}
	root.wireTracking()

	return root, nil
}

// wireTracking ties the tracking simulator's lifecycle to the order
// workflow: acceptance starts a session, delivery or failure ends it.
func (c *CompositionRoot) wireTracking() {
	log := c.logger.With("component", "composition_root")

	c.bus.Subscribe(events.TopicOrderAccepted, func(event any) {
		payload, ok := event.(events.OrderAccepted)
		if !ok {
			return
		}

		uow := c.uowFactory.Create()
		anOrder, err := uow.OrderRepository().Get(context.Background(), payload.OrderID)
		if err != nil {
			log.Error("failed to load accepted order for tracking",
				"orderId", payload.OrderID.String(), "error", err)
			return
		}

		if err := c.simulator.StartTracking(
			anOrder.ID(), payload.AgentID, anOrder.DeliveryLocation()); err != nil {
			log.Error("failed to start tracking",
				"orderId", payload.OrderID.String(), "error", err)
		}
	})

	c.bus.Subscribe(events.TopicOrderDelivered, func(event any) {
		if payload, ok := event.(events.OrderDelivered); ok {
			c.simulator.StopTracking(payload.OrderID)
		}
	})

	c.bus.Subscribe(events.TopicOrderStatusChanged, func(event any) {
		payload, ok := event.(events.OrderStatusChanged)
		if !ok {
			return
		}
		if payload.To == order.Failed || payload.To == order.Cancelled {
			c.simulator.StopTracking(payload.OrderID)
		}
	})
}

func (c *CompositionRoot) Bus() *eventbus.Bus {
	return c.bus
}

func (c *CompositionRoot) Simulator() *tracking.Simulator {
	return c.simulator
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.now)
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	var f commands.AgentUoWFactory = FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterAgentCommandHandler(f, c.now)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.bus, c.now)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOrderCommandHandler(f, c.bus, c.now)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f, c.bus, c.now)
}

func (c *CompositionRoot) CreateReportAgentLocationCommandHandler() commands.ReportAgentLocationCommandHandler {
	var f commands.AgentUoWFactory = FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportAgentLocationCommandHandler(f, c.bus, c.now)
}

func (c *CompositionRoot) CreateAdvanceDeliveriesCommandHandler() commands.AdvanceDeliveriesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceDeliveriesCommandHandler(f, c.bus, c.now)
}

func (c *CompositionRoot) CreateGetUndeliveredOrdersQueryHandler() queries.GetUndeliveredOrdersQueryHandler {
	return queries.NewGetUndeliveredOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetNearbyOrdersQueryHandler() queries.GetNearbyOrdersQueryHandler {
	return queries.NewGetNearbyOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveAgentsQueryHandler() queries.GetActiveAgentsQueryHandler {
	return queries.NewGetActiveAgentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRegisterAgentCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateAcceptOrderCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.CreateReportAgentLocationCommandHandler(),
		c.CreateGetUndeliveredOrdersQueryHandler(),
		c.CreateGetNearbyOrdersQueryHandler(),
		c.CreateGetActiveAgentsQueryHandler(),
		c.simulator,
		c.bus,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateAdvanceDeliveriesCommandHandler(),
		c.simulator,
		c.logger,
	)
}

// demoZones returns the static geofence reference data checked on every
// simulation tick. A real deployment would load these from storage.
func demoZones() []geofence.Zone {
	type zoneSpec struct {
		name     string
		lat, lng float64
		radiusM  float64
		zoneType geofence.ZoneType
	}

	specs := []zoneSpec{
		{"central kitchen", 40.7150, -74.0100, 300, geofence.Pickup},
		{"construction site", 40.7200, -74.0000, 200, geofence.Restricted},
		{"riverside staging", 40.7050, -74.0150, 250, geofence.Safe},
	}

	zones := make([]geofence.Zone, 0, len(specs))
	for _, spec := range specs {
		center, err := kernel.NewGeoPoint(spec.lat, spec.lng)
		if err != nil {
			continue
		}
		zone, err := geofence.NewZone(
			kernel.NewUUID(), spec.name, center, spec.radiusM, spec.zoneType, true)
		if err != nil {
			continue
		}
		zones = append(zones, zone)
	}
	return zones
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
