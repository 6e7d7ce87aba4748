package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/billingmail/internal/storage"
)

func TestMemoryDeliveryStore_NewestFirst(t *testing.T) {
	s := storage.NewMemoryDeliveryStore(10)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.LogDelivery(ctx, storage.DeliveryEntry{ID: fmt.Sprintf("d%d", i)}))
	}

	entries, err := s.ListDeliveries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "d3", entries[0].ID)
	assert.Equal(t, "d2", entries[1].ID)
}

func TestMemoryDeliveryStore_Bounded(t *testing.T) {
	s := storage.NewMemoryDeliveryStore(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.LogDelivery(ctx, storage.DeliveryEntry{ID: fmt.Sprintf("d%d", i)}))
	}

	entries, err := s.ListDeliveries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3, "oldest entries must be discarded at the bound")
	assert.Equal(t, "d5", entries[0].ID)
	assert.Equal(t, "d3", entries[2].ID)
}

func TestMemoryDeliveryStore_LimitLargerThanLog(t *testing.T) {
	s := storage.NewMemoryDeliveryStore(10)
	require.NoError(t, s.LogDelivery(context.Background(), storage.DeliveryEntry{ID: "d1"}))

	entries, err := s.ListDeliveries(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
