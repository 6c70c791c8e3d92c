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

// PointsService keeps the worker gamification tally.
type PointsService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewPointsService(st *store.Store, log logging.Logger) *PointsService {
	return &PointsService{store: st, log: log.With("component", "points"), now: time.Now}
}

// AwardPoints records a points award for a worker.
func (s *PointsService) AwardPoints(ctx context.Context, userID, reason string, points int) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("points award needs a worker")
	}
	if points <= 0 {
		return "", fmt.Errorf("%w: points must be positive", common.ErrInvalidQuantity)
	}
	fields, err := models.Fields(models.UserPoints{UserID: userID, Reason: reason, Points: points})
	if err != nil {
		return "", err
	}
	rec := newPending(fields, s.now().UTC())
	if err := s.store.Put(ctx, "user_points", rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// WeekPoints sums a worker's points since the start of the current ISO week
// (Monday 00:00 UTC).
func (s *PointsService) WeekPoints(ctx context.Context, userID string) (int, error) {
	weekStart := startOfWeek(s.now().UTC())
	recs, err := s.store.Query(ctx, "user_points", func(r *store.Record) bool {
		return alive(r) &&
			r.Field("user_id") == userID &&
			!r.CreatedAt.Before(weekStart)
	})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range recs {
		total += int(numField(r, "points"))
	}
	return total, nil
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
