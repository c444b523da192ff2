package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &outboxrepo.MessageDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_outbox").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.OutboxRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

// TestUnitOfWork_OrderAndEventCommitTogether stores an order with its created event and
// reads both back after commit.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderAndEventCommitTogether() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testOrder := createTestOrder(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.OutboxRepository().Add(ctx,
		order.NewChangedEvent(testOrder, order.ChangeCreated, nil, testOrder.CreatedAt())))
	suite.Require().NoError(uow.Commit(ctx))

	fresh := suite.factory.Create()
	retrieved, err := fresh.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.IsEqual(retrieved))

	messages, err := fresh.OutboxRepository().GetUnprocessed(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 1)
	suite.Equal(testOrder.ID(), messages[0].AggregateID)
	suite.Equal("order.created", messages[0].EventType)
}

// TestUnitOfWork_TransactionRollback discards the order and its event together.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testOrder := createTestOrder(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.OutboxRepository().Add(ctx,
		order.NewChangedEvent(testOrder, order.ChangeCreated, nil, testOrder.CreatedAt())))

	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	messages, err := fresh.OutboxRepository().GetUnprocessed(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(messages, "Event should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AggregateTracking() {
	ctx := context.Background()
	uow := postgres_adapter.NewGormUnitOfWorkFactory(suite.db).Create().(*postgres_adapter.GormUnitOfWork)
	testOrder := createTestOrder(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	next := testOrder.Clone()
	suite.Require().NoError(next.MoveTo(order.Paid, testOrder.CreatedAt().Add(time.Minute)))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, next))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]kernel.UUID{testOrder.ID(), testOrder.ID()}, uow.TrackedIDs())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	order1 := createTestOrder(suite)
	order2 := createTestOrder(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = fresh.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testOrder := createTestOrder(suite)

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.IsEqual(retrieved))
}

func createTestOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	price, err := kernel.MoneyFromString("65000")
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), price, "", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
