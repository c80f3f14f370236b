package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/domain/merchant"
	"github.com/payhub-io/payhub/internal/domain/webhook"
	"github.com/payhub-io/payhub/internal/infrastructure/config"
	"github.com/payhub-io/payhub/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- test doubles ---

type fakeDeliverer struct {
	mu     sync.Mutex
	inputs []webhookApp.DeliverInput
	result *webhookApp.DeliveryResult
}

func (d *fakeDeliverer) Execute(ctx context.Context, in webhookApp.DeliverInput) (*webhookApp.DeliveryResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputs = append(d.inputs, in)
	if d.result != nil {
		return d.result, nil
	}
	return &webhookApp.DeliveryResult{Success: true, Attempts: 1}, nil
}

type fakeInfoReader struct {
	infos map[uuid.UUID]*merchant.WebhookInfo
}

func (r *fakeInfoReader) Execute(ctx context.Context, merchantID uuid.UUID) (*merchant.WebhookInfo, error) {
	return r.infos[merchantID], nil
}

type fakeLock struct {
	acquired bool
}

func (l *fakeLock) Acquire(ctx context.Context) (bool, error) { return l.acquired, nil }
func (l *fakeLock) Release(ctx context.Context) error         { return nil }

type fakeLockFactory struct {
	mu     sync.Mutex
	denied map[string]bool
	keys   []string
}

func (f *fakeLockFactory) NewLock(key string) Lock {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return &fakeLock{acquired: !f.denied[key]}
}

func workerConfig() config.WorkerConfig {
	return config.WorkerConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    10,
		LockTTL:      time.Minute,
	}
}

// --- tests ---

func TestPollOnce_DeliversDueEvents(t *testing.T) {
	merchantID := uuid.New()
	secret := "whsec_x"

	repo := testutil.NewMockWebhookRepository()
	event := testutil.NewTestWebhookEvent(merchantID, 1)
	past := time.Now().UTC().Add(-time.Minute)
	event.NextRetryAt = &past
	repo.AddEvent(event)

	deliverer := &fakeDeliverer{}
	info := &fakeInfoReader{infos: map[uuid.UUID]*merchant.WebhookInfo{
		merchantID: {MerchantID: merchantID, WebhookURL: "https://m.example/hooks", WebhookSecret: &secret},
	}}
	locks := &fakeLockFactory{}

	p := NewRetryPoller(repo, info, deliverer, locks, workerConfig(), nil, zerolog.Nop())
	require.NoError(t, p.PollOnce(context.Background()))

	require.Len(t, deliverer.inputs, 1)
	in := deliverer.inputs[0]
	assert.Equal(t, event.ID, in.EventID)
	assert.Equal(t, "https://m.example/hooks", in.WebhookURL)
	require.NotNil(t, in.WebhookSecret)
	assert.Equal(t, "whsec_x", *in.WebhookSecret)
	assert.Equal(t, []string{"webhook-event:" + event.ID.String()}, locks.keys)
}

func TestPollOnce_SkipsFutureRetries(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	event := testutil.NewTestWebhookEvent(uuid.New(), 1)
	future := time.Now().UTC().Add(time.Hour)
	event.NextRetryAt = &future
	repo.AddEvent(event)

	deliverer := &fakeDeliverer{}
	p := NewRetryPoller(repo, &fakeInfoReader{}, deliverer, &fakeLockFactory{}, workerConfig(), nil, zerolog.Nop())

	require.NoError(t, p.PollOnce(context.Background()))
	assert.Empty(t, deliverer.inputs)
}

func TestPollOnce_SkipsLockedEvents(t *testing.T) {
	merchantID := uuid.New()
	repo := testutil.NewMockWebhookRepository()
	event := testutil.NewTestWebhookEvent(merchantID, 0)
	repo.AddEvent(event)

	deliverer := &fakeDeliverer{}
	locks := &fakeLockFactory{denied: map[string]bool{
		"webhook-event:" + event.ID.String(): true,
	}}
	info := &fakeInfoReader{infos: map[uuid.UUID]*merchant.WebhookInfo{
		merchantID: {MerchantID: merchantID, WebhookURL: "https://m.example/hooks"},
	}}

	p := NewRetryPoller(repo, info, deliverer, locks, workerConfig(), nil, zerolog.Nop())
	require.NoError(t, p.PollOnce(context.Background()))
	assert.Empty(t, deliverer.inputs)
}

func TestPollOnce_SkipsMerchantsWithoutWebhookURL(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	event := testutil.NewTestWebhookEvent(uuid.New(), 0)
	repo.AddEvent(event)

	deliverer := &fakeDeliverer{}
	p := NewRetryPoller(repo, &fakeInfoReader{}, deliverer, &fakeLockFactory{}, workerConfig(), nil, zerolog.Nop())

	require.NoError(t, p.PollOnce(context.Background()))
	assert.Empty(t, deliverer.inputs)

	// still pending, not failed
	assert.Equal(t, webhook.StatusPending, repo.Event(event.ID).Status)
}

func TestPollOnce_IgnoresTerminalEvents(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	delivered := testutil.NewTestWebhookEvent(uuid.New(), 1)
	delivered.Status = webhook.StatusDelivered
	repo.AddEvent(delivered)
	failed := testutil.NewTestWebhookEvent(uuid.New(), 5)
	failed.Status = webhook.StatusFailed
	repo.AddEvent(failed)

	deliverer := &fakeDeliverer{}
	p := NewRetryPoller(repo, &fakeInfoReader{}, deliverer, &fakeLockFactory{}, workerConfig(), nil, zerolog.Nop())

	require.NoError(t, p.PollOnce(context.Background()))
	assert.Empty(t, deliverer.inputs)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	p := NewRetryPoller(repo, &fakeInfoReader{}, &fakeDeliverer{}, &fakeLockFactory{}, workerConfig(), nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
