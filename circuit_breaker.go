package redis

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pior/redis/resp"
)

// CircuitBreaker guards the round-trip path of a client. Implemented by
// gobreaker.CircuitBreaker[resp.Value].
type CircuitBreaker interface {
	Execute(req func() (resp.Value, error)) (resp.Value, error)
	State() gobreaker.State
}

// NewCircuitBreakerConfig returns a factory for per-server circuit
// breakers with a sensible trip policy: open after at least 3 requests
// with a 60% failure ratio.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(serverAddr string) CircuitBreaker {
	return func(serverAddr string) CircuitBreaker {
		settings := gobreaker.Settings{
			Name:        serverAddr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}
		return gobreaker.NewCircuitBreaker[resp.Value](settings)
	}
}
