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

// HealthService records treatments and observations.
type HealthService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewHealthService(st *store.Store, log logging.Logger) *HealthService {
	return &HealthService{store: st, log: log.With("component", "health"), now: time.Now}
}

// RecordHealthEvent stores a health record for an animal. When a medication
// is given, the withdrawal end date is derived from the medication's
// withdrawal period so the slaughter restriction is visible offline.
func (s *HealthService) RecordHealthEvent(ctx context.Context, ev models.HealthEvent) (string, error) {
	if ev.PigID == "" {
		return "", fmt.Errorf("health event needs an animal")
	}
	if ev.EventType == "" {
		return "", fmt.Errorf("health event needs a type")
	}

	now := s.now().UTC()
	if ev.EventDate == "" {
		ev.EventDate = now.Format(DateLayout)
	}

	var id string
	err := s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		pig, err := tx.Get(ctx, "pigs", ev.PigID)
		if err != nil {
			return err
		}
		if pig == nil || !alive(pig) {
			return fmt.Errorf("%w: animal %s", common.ErrNotFound, ev.PigID)
		}

		if ev.MedicationID != "" {
			med, err := tx.Get(ctx, "medications", ev.MedicationID)
			if err != nil {
				return err
			}
			if med == nil || !alive(med) {
				return fmt.Errorf("%w: medication %s", common.ErrNotFound, ev.MedicationID)
			}
			days := int(numField(med, "withdrawal_days"))
			if days > 0 {
				eventDate, err := time.Parse(DateLayout, ev.EventDate)
				if err != nil {
					return fmt.Errorf("bad event date %q: %w", ev.EventDate, err)
				}
				ev.WithdrawalEndDate = eventDate.AddDate(0, 0, days).Format(DateLayout)
			}
		}

		fields, err := models.Fields(ev)
		if err != nil {
			return err
		}
		rec := newPending(fields, now)
		id = rec.ID
		return tx.Put(ctx, "health_records", rec)
	})
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "health event recorded", "id", id, "animal", ev.PigID, "type", ev.EventType)
	return id, nil
}

// HistoryForAnimal lists an animal's live health records.
func (s *HealthService) HistoryForAnimal(ctx context.Context, pigID string) ([]*store.Record, error) {
	return s.store.Query(ctx, "health_records", func(r *store.Record) bool {
		return alive(r) && r.Field("pig_id") == pigID
	})
}

// InWithdrawal reports whether the animal has an active withdrawal period
// on the given day.
func (s *HealthService) InWithdrawal(ctx context.Context, pigID string, day time.Time) (bool, error) {
	recs, err := s.HistoryForAnimal(ctx, pigID)
	if err != nil {
		return false, err
	}
	today := day.UTC().Format(DateLayout)
	for _, r := range recs {
		if end := r.Field("withdrawal_end_date"); end != "" && today <= end {
			return true, nil
		}
	}
	return false, nil
}
