package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// EverySecond is the default relay schedule.
const EverySecond = "* * * * * *"

// RelayHandler publishes one batch of pending order changes.
type RelayHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOrderChangesCommand) (int, error)
}

// OrderChangeRelayJob drains the order change outbox on a cron schedule.
type OrderChangeRelayJob struct {
	handler  RelayHandler
	cmd      commands.RelayOrderChangesCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderChangeRelayJob creates the relay job. schedule is a six-field cron
// expression with seconds; an empty schedule runs every second.
func NewOrderChangeRelayJob(
	handler RelayHandler,
	cmd commands.RelayOrderChangesCommand,
	schedule string,
	logger *slog.Logger,
) *OrderChangeRelayJob {
	if schedule == "" {
		schedule = EverySecond
	}
	return &OrderChangeRelayJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "order_change_relay_job"),
	}
}

// Start schedules the job and starts the cron runner.
func (j *OrderChangeRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order change relay job started", "schedule", j.schedule)
	return nil
}

// Run relays one batch. Failures are logged; the batch is retried on the next tick.
func (j *OrderChangeRelayJob) Run(ctx context.Context) {
	relayed, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Order change relay job failed", "error", err)
		return
	}
	if relayed > 0 {
		j.logger.InfoContext(ctx, "Order changes relayed", "count", relayed)
	}
}

// Stop stops the cron runner and waits for a running batch to finish.
func (j *OrderChangeRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order change relay job stopped")
}
