package gateway

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// newBreaker builds the circuit breaker used for a single downstream service.
// It trips after a sustained failure ratio, so one slow dependency cannot
// hold every checkout hostage.
func newBreaker[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})
}
