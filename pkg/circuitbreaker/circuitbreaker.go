package circuitbreaker

import (
	"github.com/sony/gobreaker"

	log "github.com/sirupsen/logrus"
)

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 20
	// FailingRatio ...
	FailingRatio = 0.7
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// with a default state-changing function that activates if the overall number
// of failing requests have reached a tweakable MaxNumOfFailingRequests cap and
// the failing ratio has met the FailingRatio.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch {
			case to == gobreaker.StateOpen:
				log.Warnf("%s circuit breaker opened", name)
			case from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen:
				log.Infof("%s circuit breaker half-opened", name)
			case from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed:
				log.Infof("%s circuit breaker closed", name)
			}
		},
	})
}
