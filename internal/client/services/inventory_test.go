package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granja/internal/client/models"
	"granja/internal/common"
)

func TestAddFeedItem(t *testing.T) {
	st := setupStore(t)
	svc := NewInventoryService(st, testLogger())

	id, err := svc.AddFeedItem(context.Background(), models.FeedInventoryItem{
		Name:           "Iniciador",
		CostPerKg:      12.5,
		CurrentStockKg: 200,
		BatchNumber:    "L-44",
	})
	require.NoError(t, err)

	rec := mustGet(t, st, "feed_inventory", id)
	assert.Equal(t, models.StatusPending, rec.SyncStatus)
	assert.Equal(t, 200.0, rec.Fields["current_stock_kg"])
	assert.Equal(t, "L-44", rec.Fields["batch_number"])
}

func TestAddFeedItemNegativeStock(t *testing.T) {
	svc := NewInventoryService(setupStore(t), testLogger())
	_, err := svc.AddFeedItem(context.Background(), models.FeedInventoryItem{
		Name: "Iniciador", CurrentStockKg: -1,
	})
	assert.ErrorIs(t, err, common.ErrInvalidQuantity)
}

func TestAddStock(t *testing.T) {
	st := setupStore(t)
	svc := NewInventoryService(st, testLogger())
	ctx := context.Background()

	seed(t, st, "feed_inventory", "feed-1", map[string]any{"current_stock_kg": 10.0})

	require.NoError(t, svc.AddStock(ctx, "feed-1", 15.25))

	rec := mustGet(t, st, "feed_inventory", "feed-1")
	assert.Equal(t, 25.25, rec.Fields["current_stock_kg"])
	// a delivery is a real local mutation, unlike the feeding estimate
	assert.Equal(t, models.StatusPending, rec.SyncStatus)
}

func TestAddStockValidation(t *testing.T) {
	st := setupStore(t)
	svc := NewInventoryService(st, testLogger())
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddStock(ctx, "feed-1", 0), common.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddStock(ctx, "ghost", 5), common.ErrNotFound)
}

func TestSetCost(t *testing.T) {
	st := setupStore(t)
	svc := NewInventoryService(st, testLogger())
	ctx := context.Background()

	seed(t, st, "feed_inventory", "feed-1", map[string]any{"cost_per_kg": 10.0})

	require.NoError(t, svc.SetCost(ctx, "feed-1", 11.8))

	rec := mustGet(t, st, "feed_inventory", "feed-1")
	assert.Equal(t, 11.8, rec.Fields["cost_per_kg"])
	assert.Equal(t, models.StatusPending, rec.SyncStatus)
}
