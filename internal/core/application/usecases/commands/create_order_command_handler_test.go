package commands_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 3, 12, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	price, err := kernel.MoneyFromString("65000")
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), price, "two boxes")
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should add order and created event in one transaction", func(t *testing.T) {
		ctx := t.Context()
		cmd := newCreateOrderCommand(t)

		repo := new(MockOrderRepository)
		outbox := new(MockOutboxRepository)
		uow := new(MockOrderUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
				return o.ID().IsEqual(cmd.OrderID()) && o.Status() == order.New && o.CreatedAt().Equal(fixedNow)
			})).Return(nil).Once(),
			uow.On("OutboxRepository").Return(outbox).Once(),
			outbox.On("Add", ctx, mock.MatchedBy(func(e order.ChangedEvent) bool {
				return e.Change == order.ChangeCreated && e.OrderID == cmd.OrderID().String() &&
					e.Transition == nil && !e.InvoiceRequested
			})).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewCreateOrderCommandHandler(factory, clock)
		err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		outbox.AssertExpectations(t)
		uow.AssertExpectations(t)
		factory.AssertExpectations(t)
	})

	t.Run("should reject unconstructed command", func(t *testing.T) {
		factory := new(MockOrderUoWFactory)
		h := commands.NewCreateOrderCommandHandler(factory, clock)

		err := h.Handle(t.Context(), commands.CreateOrderCommand{})

		require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should return begin error", func(t *testing.T) {
		ctx := t.Context()
		uow := new(MockOrderUoW)
		factory := new(MockOrderUoWFactory)
		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
		)

		h := commands.NewCreateOrderCommandHandler(factory, clock)
		err := h.Handle(ctx, newCreateOrderCommand(t))

		require.EqualError(t, err, "begin error")
		uow.AssertExpectations(t)
	})

	t.Run("should roll back when outbox add fails", func(t *testing.T) {
		ctx := t.Context()
		repo := new(MockOrderRepository)
		outbox := new(MockOutboxRepository)
		uow := new(MockOrderUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.Anything).Return(nil).Once(),
			uow.On("OutboxRepository").Return(outbox).Once(),
			outbox.On("Add", ctx, mock.Anything).Return(errors.New("outbox error")).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewCreateOrderCommandHandler(factory, clock)
		err := h.Handle(ctx, newCreateOrderCommand(t))

		require.EqualError(t, err, "outbox error")
		uow.AssertNotCalled(t, "Commit", ctx)
		uow.AssertExpectations(t)
	})

	t.Run("should return commit error", func(t *testing.T) {
		ctx := t.Context()
		repo := new(MockOrderRepository)
		outbox := new(MockOutboxRepository)
		uow := new(MockOrderUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.Anything).Return(nil).Once(),
			uow.On("OutboxRepository").Return(outbox).Once(),
			outbox.On("Add", ctx, mock.Anything).Return(nil).Once(),
			uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewCreateOrderCommandHandler(factory, clock)
		err := h.Handle(ctx, newCreateOrderCommand(t))

		assert.EqualError(t, err, "commit error")
		uow.AssertExpectations(t)
	})
}
