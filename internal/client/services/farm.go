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

// FarmService manages the physical layout: sections and their pens.
//
// Sections and pens are deduplicated by name during sync, so creating one
// offline that another device also created is safe; reconciliation collapses
// the pair and repoints everything at the surviving row.
type FarmService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewFarmService(st *store.Store, log logging.Logger) *FarmService {
	return &FarmService{store: st, log: log.With("component", "farm"), now: time.Now}
}

// CreateSection adds a named farm area.
func (s *FarmService) CreateSection(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("section needs a name")
	}
	fields, err := models.Fields(models.Section{Name: name})
	if err != nil {
		return "", err
	}
	rec := newPending(fields, s.now().UTC())
	if err := s.store.Put(ctx, "sections", rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// CreatePen adds a pen to an existing section.
func (s *FarmService) CreatePen(ctx context.Context, pen models.Pen) (string, error) {
	if pen.Name == "" {
		return "", fmt.Errorf("pen needs a name")
	}
	if pen.Capacity < 0 {
		return "", fmt.Errorf("%w: capacity cannot be negative", common.ErrInvalidQuantity)
	}

	section, err := s.store.Get(ctx, "sections", pen.SectionID)
	if err != nil {
		return "", err
	}
	if section == nil || !alive(section) {
		return "", fmt.Errorf("%w: section %s", common.ErrNotFound, pen.SectionID)
	}

	fields, err := models.Fields(pen)
	if err != nil {
		return "", err
	}
	rec := newPending(fields, s.now().UTC())
	if err := s.store.Put(ctx, "pens", rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Sections lists live sections.
func (s *FarmService) Sections(ctx context.Context) ([]*store.Record, error) {
	return s.store.Query(ctx, "sections", alive)
}

// Pens lists the live pens of one section.
func (s *FarmService) Pens(ctx context.Context, sectionID string) ([]*store.Record, error) {
	return s.store.Query(ctx, "pens", func(r *store.Record) bool {
		return alive(r) && r.Field("section_id") == sectionID
	})
}
