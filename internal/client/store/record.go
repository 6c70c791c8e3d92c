package store

import (
	"fmt"
	"time"

	"granja/internal/client/models"
)

// Record is the shape every syncable table shares. Domain fields live in
// Fields and are stored as a JSON column; the rest are fixed meta columns.
type Record struct {
	// ID is a client-generated UUID assigned at creation. It never changes
	// and is the join key between local and remote representations.
	ID string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DeletedAt non-nil marks a soft tombstone: the record is logically
	// gone but retained until reconciliation confirms remote deletion.
	DeletedAt *time.Time

	SyncStatus models.SyncStatus

	// Fields holds the domain payload. Values follow encoding/json
	// conventions (numbers are float64).
	Fields map[string]any
}

// Field returns the named domain field as a string, or "" when absent or
// not a string. Foreign keys and natural keys are always strings.
func (r *Record) Field(name string) string {
	v, _ := r.Fields[name].(string)
	return v
}

// Clone returns a deep-enough copy: the field map is copied, values are
// shared. Callers patching Fields must not mutate nested values in place.
func (r *Record) Clone() *Record {
	c := *r
	if r.DeletedAt != nil {
		t := *r.DeletedAt
		c.DeletedAt = &t
	}
	c.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return &c
}

// timeLayouts are accepted when parsing stored or incoming timestamps.
// RFC 3339 is canonical; the date-only form appears in historical rows.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a stored timestamp string.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// FormatTime renders a timestamp in the canonical stored form.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
