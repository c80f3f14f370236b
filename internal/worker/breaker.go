package worker

import (
	"net/http"
	"time"

	"github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/infrastructure/observability"
	"github.com/sony/gobreaker/v2"
)

// BreakerSender wraps a webhook sender with a circuit breaker. A trip shows
// up to the delivery state machine as a transport error, which is the capped
// retry path, so a dead endpoint burns through its attempts instead of
// hammering the network.
type BreakerSender struct {
	inner   webhook.Sender
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewBreakerSender creates a breaker-wrapped sender. A nil inner falls back
// to the default HTTP sender.
func NewBreakerSender(name string, inner webhook.Sender, metrics *observability.Metrics) *BreakerSender {
	if inner == nil {
		inner = webhook.NewHTTPSender(0)
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	}
	if metrics != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		}
	}

	return &BreakerSender{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

// Do executes the request through the breaker. Only transport errors count
// as breaker failures; a reached non-2xx response is a normal outcome.
func (s *BreakerSender) Do(req *http.Request) (*http.Response, error) {
	return s.breaker.Execute(func() (*http.Response, error) {
		return s.inner.Do(req)
	})
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
