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

// HerdService manages the animals themselves: registration, pen moves,
// weighing and retirement.
type HerdService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewHerdService(st *store.Store, log logging.Logger) *HerdService {
	return &HerdService{store: st, log: log.With("component", "herd"), now: time.Now}
}

// RegisterAnimal creates a pig and, when a weight is given, its first
// weight_logs entry, atomically. An active animal already wearing the same
// tag fails the whole registration with ErrDuplicateTag.
func (s *HerdService) RegisterAnimal(ctx context.Context, pig models.Pig) (string, error) {
	if pig.TagNumber == "" {
		return "", fmt.Errorf("animal needs a tag number")
	}
	if pig.Status == "" {
		pig.Status = models.StatusActivo
	}

	now := s.now().UTC()
	var id string

	err := s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		dups, err := tx.Query(ctx, "pigs", func(r *store.Record) bool {
			return alive(r) &&
				r.Field("tag_number") == pig.TagNumber &&
				r.Field("status") == models.StatusActivo
		})
		if err != nil {
			return err
		}
		if len(dups) > 0 {
			return fmt.Errorf("%w: tag %s is on active animal %s",
				common.ErrDuplicateTag, pig.TagNumber, dups[0].ID)
		}

		fields, err := models.Fields(pig)
		if err != nil {
			return err
		}
		rec := newPending(fields, now)
		id = rec.ID
		if err := tx.Put(ctx, "pigs", rec); err != nil {
			return err
		}

		if pig.Weight > 0 {
			logFields, err := models.Fields(models.WeightLog{
				PigID:  id,
				Weight: pig.Weight,
				Date:   now.Format(DateLayout),
			})
			if err != nil {
				return err
			}
			if err := tx.Put(ctx, "weight_logs", newPending(logFields, now)); err != nil {
				return err
			}
		}

		s.log.Info(ctx, "animal registered", "id", id, "tag", pig.TagNumber)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// MoveAnimals reassigns every given animal to the target pen in one
// transaction. The move is all-or-nothing: if the pen cannot hold its
// current occupants plus the whole group, nothing moves.
func (s *HerdService) MoveAnimals(ctx context.Context, pigIDs []string, targetPenID string) error {
	if len(pigIDs) == 0 {
		return common.ErrNoTargets
	}

	moving := make(map[string]struct{}, len(pigIDs))
	for _, id := range pigIDs {
		moving[id] = struct{}{}
	}

	now := s.now().UTC()
	return s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		pen, err := tx.Get(ctx, "pens", targetPenID)
		if err != nil {
			return err
		}
		if pen == nil || !alive(pen) {
			return fmt.Errorf("%w: pen %s", common.ErrNotFound, targetPenID)
		}

		for _, id := range pigIDs {
			pig, err := tx.Get(ctx, "pigs", id)
			if err != nil {
				return err
			}
			if pig == nil || !alive(pig) {
				return fmt.Errorf("%w: animal %s", common.ErrNotFound, id)
			}
		}

		// occupants already moving with the group do not count twice
		occupants, err := tx.Query(ctx, "pigs", func(r *store.Record) bool {
			if _, ok := moving[r.ID]; ok {
				return false
			}
			return alive(r) &&
				r.Field("pen_id") == targetPenID &&
				r.Field("status") == models.StatusActivo
		})
		if err != nil {
			return err
		}

		capacity := int(numField(pen, "capacity"))
		if len(occupants)+len(pigIDs) > capacity {
			return fmt.Errorf("%w: pen %s holds %d of %d, cannot add %d",
				common.ErrPenOverCapacity, targetPenID, len(occupants), capacity, len(pigIDs))
		}

		err = tx.Modify(ctx, "pigs", pigIDs, func(r *store.Record) {
			r.Fields["pen_id"] = targetPenID
			touchPending(r, now)
		})
		if err != nil {
			return err
		}

		s.log.Info(ctx, "animals moved", "pen", targetPenID, "count", len(pigIDs))
		return nil
	})
}

// RecordWeight appends a weight_logs entry and updates the animal's current
// weight, both pending.
func (s *HerdService) RecordWeight(ctx context.Context, pigID string, weightKg float64, date string) error {
	if weightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", common.ErrInvalidQuantity)
	}
	now := s.now().UTC()
	if date == "" {
		date = now.Format(DateLayout)
	}

	return s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		pig, err := tx.Get(ctx, "pigs", pigID)
		if err != nil {
			return err
		}
		if pig == nil || !alive(pig) {
			return fmt.Errorf("%w: animal %s", common.ErrNotFound, pigID)
		}

		fields, err := models.Fields(models.WeightLog{PigID: pigID, Weight: weightKg, Date: date})
		if err != nil {
			return err
		}
		if err := tx.Put(ctx, "weight_logs", newPending(fields, now)); err != nil {
			return err
		}

		pig.Fields["weight"] = weightKg
		touchPending(pig, now)
		return tx.Put(ctx, "pigs", pig)
	})
}

// SetStage moves an animal to another lifecycle stage.
func (s *HerdService) SetStage(ctx context.Context, pigID, stage string) error {
	now := s.now().UTC()
	pig, err := s.store.Get(ctx, "pigs", pigID)
	if err != nil {
		return err
	}
	if pig == nil || !alive(pig) {
		return fmt.Errorf("%w: animal %s", common.ErrNotFound, pigID)
	}
	pig.Fields["stage"] = stage
	touchPending(pig, now)
	return s.store.Put(ctx, "pigs", pig)
}

// DeactivateAnimal soft-deletes an animal: the row gets a deleted_at
// tombstone and stays in place, pending, until a pull confirms the remote
// deletion and the engine removes it for good.
func (s *HerdService) DeactivateAnimal(ctx context.Context, pigID string) error {
	now := s.now().UTC()
	pig, err := s.store.Get(ctx, "pigs", pigID)
	if err != nil {
		return err
	}
	if pig == nil || !alive(pig) {
		return fmt.Errorf("%w: animal %s", common.ErrNotFound, pigID)
	}

	pig.Fields["status"] = models.StatusInactivo
	pig.DeletedAt = &now
	touchPending(pig, now)
	if err := s.store.Put(ctx, "pigs", pig); err != nil {
		return err
	}
	s.log.Info(ctx, "animal deactivated", "id", pigID)
	return nil
}

// ActiveAnimals lists the live, active herd.
func (s *HerdService) ActiveAnimals(ctx context.Context) ([]*store.Record, error) {
	return s.store.Query(ctx, "pigs", func(r *store.Record) bool {
		return alive(r) && r.Field("status") == models.StatusActivo
	})
}

// AnimalsInPen lists the live, active occupants of one pen.
func (s *HerdService) AnimalsInPen(ctx context.Context, penID string) ([]*store.Record, error) {
	return s.store.Query(ctx, "pigs", func(r *store.Record) bool {
		return alive(r) &&
			r.Field("pen_id") == penID &&
			r.Field("status") == models.StatusActivo
	})
}
