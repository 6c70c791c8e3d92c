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

// FeedMode selects how a feeding's total quantity is split across targets.
type FeedMode string

const (
	// FeedModeBatch splits the total evenly across every target animal.
	FeedModeBatch FeedMode = "batch"
	// FeedModeIndividual gives the full quantity to a single animal.
	FeedModeIndividual FeedMode = "individual"
)

// FeedingRequest describes one feeding to register.
type FeedingRequest struct {
	Mode            FeedMode
	FeedItemID      string
	TotalQuantityKg float64

	// TargetIDs are animal ids. Batch mode takes one or more; individual
	// mode takes exactly one.
	TargetIDs []string

	// PenID is recorded on each usage row when the feeding covered a whole
	// pen. Optional.
	PenID string

	// Date defaults to today.
	Date string
}

// FeedingService registers feed consumption and keeps the local stock
// estimate in step.
type FeedingService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewFeedingService(st *store.Store, log logging.Logger) *FeedingService {
	return &FeedingService{store: st, log: log.With("component", "feeding"), now: time.Now}
}

// RegisterFeeding validates the request against current stock and writes one
// pending feed_usage row per target. The inventory decrement is a local
// estimate only: it is written without a pending mark, and the next pull
// overwrites it with the server's derived figure.
//
// Stock short of the requested total fails with ErrInsufficientStock and no
// writes at all.
func (s *FeedingService) RegisterFeeding(ctx context.Context, req FeedingRequest) error {
	if req.TotalQuantityKg <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrInvalidQuantity)
	}
	if len(req.TargetIDs) == 0 {
		return common.ErrNoTargets
	}
	if req.Mode == FeedModeIndividual && len(req.TargetIDs) != 1 {
		return fmt.Errorf("%w: individual feeding takes exactly one animal", common.ErrNoTargets)
	}

	now := s.now().UTC()
	date := req.Date
	if date == "" {
		date = now.Format(DateLayout)
	}

	perTarget := req.TotalQuantityKg
	if req.Mode == FeedModeBatch {
		perTarget = req.TotalQuantityKg / float64(len(req.TargetIDs))
	}
	perTarget = round2(perTarget)

	return s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		item, err := tx.Get(ctx, "feed_inventory", req.FeedItemID)
		if err != nil {
			return err
		}
		if item == nil || !alive(item) {
			return fmt.Errorf("%w: feed item %s", common.ErrNotFound, req.FeedItemID)
		}

		stock := numField(item, "current_stock_kg")
		if stock < req.TotalQuantityKg {
			return fmt.Errorf("%w: have %.2f kg, need %.2f kg",
				common.ErrInsufficientStock, stock, req.TotalQuantityKg)
		}

		for _, pigID := range req.TargetIDs {
			fields, err := models.Fields(models.FeedUsageEvent{
				FeedID:   req.FeedItemID,
				PigID:    pigID,
				PenID:    req.PenID,
				AmountKg: perTarget,
				Date:     date,
			})
			if err != nil {
				return err
			}
			if err := tx.Put(ctx, "feed_usage", newPending(fields, now)); err != nil {
				return err
			}
		}

		// local estimate, deliberately not marked pending
		item.Fields["current_stock_kg"] = round2(stock - req.TotalQuantityKg)
		item.UpdatedAt = now
		if err := tx.Put(ctx, "feed_inventory", item); err != nil {
			return err
		}

		s.log.Info(ctx, "feeding registered",
			"feed", req.FeedItemID, "targets", len(req.TargetIDs),
			"total_kg", req.TotalQuantityKg, "per_target_kg", perTarget)
		return nil
	})
}
