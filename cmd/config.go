package cmd

import "fmt"

const (
	DefaultOutboxRelaySchedule  = "* * * * * *"
	DefaultOutboxRelayBatchSize = 100
)

type Config struct {
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	KafkaHost              string
	KafkaOrderChangedTopic string
	OutboxRelaySchedule    string
	OutboxRelayBatchSize   int
}

// DSN builds the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
