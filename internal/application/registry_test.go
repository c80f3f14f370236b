package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperations_Declarations(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 6)

	byName := make(map[string]Operation, len(ops))
	for _, op := range ops {
		byName[op.Name] = op
	}

	for _, name := range []string{
		OpGetProcessorConfig, OpUpdateOrderStatus, OpGetOrder,
		OpGetWebhookInfo, OpCreateWebhookEvent,
	} {
		op, ok := byName[name]
		require.True(t, ok, "missing operation %s", name)
		assert.Equal(t, 30*time.Second, op.Timeout, name)
		assert.Equal(t, 3, op.Retries, name)
	}

	deliver, ok := byName[OpDeliverWebhook]
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, deliver.Timeout)
	assert.Equal(t, 0, deliver.Retries, "delivery retries are hand-managed")
}
