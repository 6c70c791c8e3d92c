// Package services implements the farm's domain operations on top of the
// local record store. Every write marks its rows pending so the sync engine
// picks them up; invariant checks always run before any write, and
// multi-row effects share one transaction.
package services

import (
	"math"
	"time"

	"github.com/google/uuid"

	"granja/internal/client/models"
	"granja/internal/client/store"
)

// DateLayout is the day-granularity format used for domain dates
// (birth dates, feeding dates, withdrawal ends).
const DateLayout = "2006-01-02"

// newPending builds a fresh pending record from typed domain fields.
func newPending(fields map[string]any, at time.Time) *store.Record {
	return &store.Record{
		ID:         uuid.NewString(),
		CreatedAt:  at,
		UpdatedAt:  at,
		SyncStatus: models.StatusPending,
		Fields:     fields,
	}
}

// touchPending stamps a mutated record for push.
func touchPending(r *store.Record, at time.Time) {
	r.UpdatedAt = at
	r.SyncStatus = models.StatusPending
}

// numField reads a numeric domain field. JSON decoding yields float64; zero
// is returned for absent or non-numeric values.
func numField(r *store.Record, name string) float64 {
	switch v := r.Fields[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// round2 rounds to two decimals, the precision feed amounts are kept at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// alive reports whether a record is a live row (not a soft tombstone).
func alive(r *store.Record) bool {
	return r.DeletedAt == nil
}
