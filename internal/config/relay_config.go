package config

import "os"

// RelayConfig holds configuration for the notification outbox relay.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
}

func LoadRelayConfig() *RelayConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queueName := os.Getenv("NOTIFICATION_QUEUE_NAME")
	if queueName == "" {
		queueName = "caregiver-notifications"
	}

	return &RelayConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   queueName,
	}
}
