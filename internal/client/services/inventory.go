package services

import (
	"context"
	"fmt"
	"time"

	"granja/internal/client/models"
	"granja/internal/client/store"
	"granja/internal/common"
	"granja/internal/logging"
)

// InventoryService manages feed stock records.
type InventoryService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewInventoryService(st *store.Store, log logging.Logger) *InventoryService {
	return &InventoryService{store: st, log: log.With("component", "inventory"), now: time.Now}
}

// AddFeedItem registers a new feed type.
func (s *InventoryService) AddFeedItem(ctx context.Context, item models.FeedInventoryItem) (string, error) {
	if item.Name == "" {
		return "", fmt.Errorf("feed item needs a name")
	}
	if item.CurrentStockKg < 0 {
		return "", fmt.Errorf("%w: stock cannot be negative", common.ErrInvalidQuantity)
	}
	fields, err := models.Fields(item)
	if err != nil {
		return "", err
	}
	rec := newPending(fields, s.now().UTC())
	if err := s.store.Put(ctx, "feed_inventory", rec); err != nil {
		return "", err
	}
	s.log.Info(ctx, "feed item added", "id", rec.ID, "name", item.Name)
	return rec.ID, nil
}

// AddStock records a stock delivery: the item's level goes up and the row is
// marked pending, unlike the feeding decrement which is a local estimate.
func (s *InventoryService) AddStock(ctx context.Context, feedItemID string, amountKg float64) error {
	if amountKg <= 0 {
		return fmt.Errorf("%w: delivery must be positive", common.ErrInvalidQuantity)
	}
	now := s.now().UTC()

	item, err := s.store.Get(ctx, "feed_inventory", feedItemID)
	if err != nil {
		return err
	}
	if item == nil || !alive(item) {
		return fmt.Errorf("%w: feed item %s", common.ErrNotFound, feedItemID)
	}

	item.Fields["current_stock_kg"] = round2(numField(item, "current_stock_kg") + amountKg)
	touchPending(item, now)
	return s.store.Put(ctx, "feed_inventory", item)
}

// SetCost updates the price per kilogram of a feed item.
func (s *InventoryService) SetCost(ctx context.Context, feedItemID string, costPerKg float64) error {
	if costPerKg < 0 {
		return fmt.Errorf("%w: cost cannot be negative", common.ErrInvalidQuantity)
	}
	item, err := s.store.Get(ctx, "feed_inventory", feedItemID)
	if err != nil {
		return err
	}
	if item == nil || !alive(item) {
		return fmt.Errorf("%w: feed item %s", common.ErrNotFound, feedItemID)
	}
	item.Fields["cost_per_kg"] = costPerKg
	touchPending(item, s.now().UTC())
	return s.store.Put(ctx, "feed_inventory", item)
}

// FeedItems lists the live inventory.
func (s *InventoryService) FeedItems(ctx context.Context) ([]*store.Record, error) {
	return s.store.Query(ctx, "feed_inventory", alive)
}
