package webhook

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{5, 16 * time.Minute},
		{11, 1024 * time.Minute},
		{12, 24 * time.Hour}, // 2048m > 1440m, clamped
		{30, 24 * time.Hour},
		{100, 24 * time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BackoffDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestBackoffDelay_MillisecondValues(t *testing.T) {
	assert.EqualValues(t, 60000, BackoffDelay(1).Milliseconds())
	assert.EqualValues(t, 960000, BackoffDelay(5).Milliseconds())
	assert.EqualValues(t, 86400000, BackoffDelay(30).Milliseconds())
}

func TestRetryPolicy_BackoffDelay_CustomTuning(t *testing.T) {
	p := RetryPolicy{BaseDelay: 2 * time.Second, MaxDelay: 10 * time.Second, MaxAttempts: 3}

	assert.Equal(t, 2*time.Second, p.BackoffDelay(1))
	assert.Equal(t, 4*time.Second, p.BackoffDelay(2))
	assert.Equal(t, 8*time.Second, p.BackoffDelay(3))
	assert.Equal(t, 10*time.Second, p.BackoffDelay(4))
	assert.Equal(t, 10*time.Second, p.BackoffDelay(20))
}

func TestBackoffDelay_AttemptFloor(t *testing.T) {
	assert.Equal(t, BackoffDelay(1), BackoffDelay(0))
	assert.Equal(t, BackoffDelay(1), BackoffDelay(-3))
}

func TestNewEvent(t *testing.T) {
	merchantID := uuid.New()
	orderID := uuid.New()

	e := NewEvent(merchantID, &orderID, "payment.captured", map[string]any{"amount": 1500}, nil)

	assert.Equal(t, StatusPending, e.Status)
	assert.Equal(t, 0, e.Attempts)
	assert.Equal(t, merchantID, e.MerchantID)
	assert.Equal(t, &orderID, e.OrderID)
	assert.Nil(t, e.NextRetryAt)
	assert.Nil(t, e.DeliveredAt)
	assert.False(t, e.IsTerminal())
}

func TestEvent_IsTerminal(t *testing.T) {
	e := &Event{Status: StatusPending}
	assert.False(t, e.IsTerminal())

	e.Status = StatusDelivered
	assert.True(t, e.IsTerminal())

	e.Status = StatusFailed
	assert.True(t, e.IsTerminal())
}
