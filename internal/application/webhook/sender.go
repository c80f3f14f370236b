package webhook

import (
	"net/http"
	"time"

	"github.com/payhub-io/payhub/internal/domain/webhook"
)

// Sender executes the outbound HTTP request for a delivery attempt.
// *http.Client satisfies it directly.
type Sender interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPSender returns the default sender: a plain client bounded by the
// given deadline (non-positive means the stock delivery timeout). Redirect
// handling and connection pooling are left at their defaults.
func NewHTTPSender(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = webhook.DefaultDeliveryTimeout
	}
	return &http.Client{Timeout: timeout}
}
