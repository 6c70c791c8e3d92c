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

// BreedingService records services, confirmations and farrowings for dams.
type BreedingService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewBreedingService(st *store.Store, log logging.Logger) *BreedingService {
	return &BreedingService{store: st, log: log.With("component", "breeding"), now: time.Now}
}

// RecordBreedingEvent stores a breeding event for a dam.
func (s *BreedingService) RecordBreedingEvent(ctx context.Context, ev models.BreedingEvent) (string, error) {
	if ev.PigID == "" {
		return "", fmt.Errorf("breeding event needs a dam")
	}
	if ev.EventType == "" {
		return "", fmt.Errorf("breeding event needs a type")
	}

	now := s.now().UTC()
	if ev.EventDate == "" {
		ev.EventDate = now.Format(DateLayout)
	}

	dam, err := s.store.Get(ctx, "pigs", ev.PigID)
	if err != nil {
		return "", err
	}
	if dam == nil || !alive(dam) {
		return "", fmt.Errorf("%w: animal %s", common.ErrNotFound, ev.PigID)
	}

	fields, err := models.Fields(ev)
	if err != nil {
		return "", err
	}
	rec := newPending(fields, now)
	if err := s.store.Put(ctx, "breeding_events", rec); err != nil {
		return "", err
	}

	s.log.Info(ctx, "breeding event recorded", "id", rec.ID, "dam", ev.PigID, "type", ev.EventType)
	return rec.ID, nil
}

// EventsForDam lists a dam's live breeding events.
func (s *BreedingService) EventsForDam(ctx context.Context, pigID string) ([]*store.Record, error) {
	return s.store.Query(ctx, "breeding_events", func(r *store.Record) bool {
		return alive(r) && r.Field("pig_id") == pigID
	})
}

// PredictedDueDate derives the expected farrowing date from a service date.
func PredictedDueDate(eventDate string) (time.Time, error) {
	t, err := time.Parse(DateLayout, eventDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad event date %q: %w", eventDate, err)
	}
	return t.AddDate(0, 0, models.GestationDays), nil
}

// DaysUntilFarrowing counts whole days from now until the predicted due
// date. Negative means overdue.
func DaysUntilFarrowing(eventDate string, now time.Time) (int, error) {
	due, err := PredictedDueDate(eventDate)
	if err != nil {
		return 0, err
	}
	today, err := time.Parse(DateLayout, now.UTC().Format(DateLayout))
	if err != nil {
		return 0, err
	}
	return int(due.Sub(today).Hours() / 24), nil
}
