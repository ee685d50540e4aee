package config

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker creates a named breaker with per-dependency open
// timeouts. The quiet-preference cache lookup sits on every gated
// delivery, so its breaker recovers fastest; Postgres gets a middle
// timeout matching the readiness probe; the RabbitMQ publisher and
// anything else back off longest.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration
	switch name {
	case "Redis-Prefs":
		timeout = 5 * time.Second
	case "PostgreSQL", "Relay-PostgreSQL":
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
		},
	})
}
