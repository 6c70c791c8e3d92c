package services

import (
	"context"
	"fmt"
	"time"

	"granja/internal/client/models"
	"granja/internal/client/store"
	"granja/internal/logging"
)

// AccessService keeps the biosecurity visit register.
type AccessService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewAccessService(st *store.Store, log logging.Logger) *AccessService {
	return &AccessService{store: st, log: log.With("component", "biosecurity"), now: time.Now}
}

// LogAccess records a visitor entry.
func (s *AccessService) LogAccess(ctx context.Context, entry models.AccessLog) (string, error) {
	if entry.VisitorName == "" {
		return "", fmt.Errorf("access log needs a visitor name")
	}
	fields, err := models.Fields(entry)
	if err != nil {
		return "", err
	}
	rec := newPending(fields, s.now().UTC())
	if err := s.store.Put(ctx, "access_logs", rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// RecentAccess lists visits recorded on or after since.
func (s *AccessService) RecentAccess(ctx context.Context, since time.Time) ([]*store.Record, error) {
	return s.store.Query(ctx, "access_logs", func(r *store.Record) bool {
		return alive(r) && !r.CreatedAt.Before(since)
	})
}
