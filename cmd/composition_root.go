package cmd

import (
	"log/slog"
	"strings"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    order.Catalog
	lifecycle  services.OrderLifecycle
	publisher  *kafka.OrderChangedPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	catalog := order.DefaultCatalog()
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		lifecycle:  services.NewOrderLifecycle(catalog, nil),
		publisher:  kafka.NewOrderChangedPublisher(strings.Split(config.KafkaHost, ","), config.KafkaOrderChangedTopic),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), nil)
}

func (c *CompositionRoot) CreateExecuteTransitionCommandHandler() commands.ExecuteTransitionCommandHandler {
	return commands.NewExecuteTransitionCommandHandler(c.orderUoWFactory(), c.lifecycle, c.logger)
}

func (c *CompositionRoot) CreateMarkInvoiceSentCommandHandler() commands.MarkInvoiceSentCommandHandler {
	return commands.NewMarkInvoiceSentCommandHandler(c.orderUoWFactory(), nil)
}

func (c *CompositionRoot) CreateRelayOrderChangesCommandHandler() commands.RelayOrderChangesCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOrderChangesCommandHandler(f, c.publisher, nil)
}

func (c *CompositionRoot) CreateGetUndeliveredOrdersQueryHandler() queries.GetUndeliveredOrdersQueryHandler {
	return queries.NewGetUndeliveredOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderTransitionsQueryHandler() queries.GetOrderTransitionsQueryHandler {
	return queries.NewGetOrderTransitionsQueryHandler(c.uowFactory.Create().OrderRepository(), c.lifecycle)
}

func (c *CompositionRoot) CreateHTTPServer(registry *prometheus.Registry) (*httpin.Server, error) {
	metrics, err := httpin.NewMetrics(registry)
	if err != nil {
		return nil, err
	}
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateExecuteTransitionCommandHandler(),
		c.CreateMarkInvoiceSentCommandHandler(),
		c.CreateGetUndeliveredOrdersQueryHandler(),
		c.CreateGetOrderTransitionsQueryHandler(),
		c.catalog,
		metrics,
	), nil
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	relayCmd, err := commands.NewRelayOrderChangesCommand(c.config.OutboxRelayBatchSize)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(
		c.CreateRelayOrderChangesCommandHandler(),
		relayCmd,
		c.config.OutboxRelaySchedule,
		c.logger,
	), nil
}

// Close releases the Kafka writer.
func (c *CompositionRoot) Close() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
