package order

import (
	"testing"

	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_Active(t *testing.T) {
	tests := []struct {
		status status.Status
		active bool
	}{
		{status.StatusPending, true},
		{status.StatusPreparing, true},
		{status.StatusReady, true},
		{status.StatusDelivered, false},
		{status.StatusCancelled, false},
	}

	for _, tt := range tests {
		o := Order{Status: tt.status}
		assert.Equal(t, tt.active, o.Active(), "status %s", tt.status)
	}
}

func TestPartition(t *testing.T) {
	orders := []Order{
		{ID: 1, Status: status.StatusDelivered},
		{ID: 2, Status: status.StatusPending},
		{ID: 3, Status: status.StatusCancelled},
		{ID: 4, Status: status.StatusReady},
	}

	active, completed := Partition(orders)

	require.Len(t, active, 2)
	assert.Equal(t, int64(2), active[0].ID)
	assert.Equal(t, int64(4), active[1].ID)

	require.Len(t, completed, 2)
	assert.Equal(t, int64(1), completed[0].ID)
	assert.Equal(t, int64(3), completed[1].ID)
}

func TestPartition_Empty(t *testing.T) {
	active, completed := Partition(nil)
	assert.Empty(t, active)
	assert.Empty(t, completed)
}
