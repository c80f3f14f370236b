package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeForStatus(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   TransactionType
	}{
		{StatusCaptured, TypeCapture},
		{StatusAuthorized, TypeAuthorization},
		{StatusPending, TypeAuthorization},
		{StatusFailed, TypeAuthorization},
		{OrderStatus("something_else"), TypeAuthorization},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TransactionTypeForStatus(tt.status), "status %s", tt.status)
	}
}

func TestTransactionStatusForOrder(t *testing.T) {
	assert.Equal(t, TxFailed, TransactionStatusForOrder(StatusFailed))
	assert.Equal(t, TxSuccess, TransactionStatusForOrder(StatusCaptured))
	assert.Equal(t, TxSuccess, TransactionStatusForOrder(StatusAuthorized))
	assert.Equal(t, TxSuccess, TransactionStatusForOrder(StatusPending))
}
