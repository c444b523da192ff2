// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with second precision.
//
// # Available Jobs
//
// OrderChangeRelayJob drains the order_outbox table. Every tick it runs
// RelayOrderChangesCommandHandler, which publishes up to one batch of pending
// order change events to Kafka and marks them processed in the same transaction.
// A tick that starts while the previous batch is still running is skipped.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, relayCmd, cfg.OutboxRelaySchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Relay failures are logged and the batch stays pending, so delivery is at least once.
package jobs
