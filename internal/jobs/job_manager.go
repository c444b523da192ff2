package jobs

import (
	"fmt"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderChangeRelayJob *OrderChangeRelayJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	relayHandler RelayHandler,
	relayCmd commands.RelayOrderChangesCommand,
	relaySchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderChangeRelayJob: NewOrderChangeRelayJob(relayHandler, relayCmd, relaySchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderChangeRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start order change relay job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderChangeRelayJob.Stop()
}
