// Package wire translates records between their local shape and the wire
// shape expected by the remote sync endpoint.
//
// This is the only place historical field aliases live. Some tables carry
// two field-name sets from older app versions; the translator always emits
// the canonical remote name and folds aliases on the way in, so fallback
// chains never leak into domain code.
package wire

import (
	"fmt"
	"time"

	"granja/internal/client/store"
)

// Row is one record in wire shape: a flat JSON object with the meta fields
// id, created_at, updated_at, deleted_at next to the domain fields.
type Row map[string]any

// aliases maps historical field names to their canonical remote names,
// per table. Canonical values win when both names are present.
var aliases = map[string]map[string]string{
	"pigs": {
		"numero_arete": "tag_number",
	},
	"feed_inventory": {
		"current_stock": "current_stock_kg",
	},
	"feed_usage": {
		"amount": "amount_kg",
	},
}

// local-only bookkeeping fields that must never travel, and are dropped
// when a server echoes them back.
var localOnly = map[string]struct{}{
	"syncStatus":  {},
	"sync_status": {},
}

// ToWire renders a local record in wire shape with canonical field names.
func ToWire(table string, rec *store.Record) Row {
	row := make(Row, len(rec.Fields)+4)
	for k, v := range rec.Fields {
		if _, skip := localOnly[k]; skip {
			continue
		}
		canon := canonical(table, k)
		if canon != k {
			// stale alias from a historical row: canonical value wins
			if _, ok := rec.Fields[canon]; ok {
				continue
			}
		}
		row[canon] = v
	}

	row["id"] = rec.ID
	row["created_at"] = store.FormatTime(rec.CreatedAt)
	row["updated_at"] = store.FormatTime(rec.UpdatedAt)
	if rec.DeletedAt != nil {
		row["deleted_at"] = store.FormatTime(*rec.DeletedAt)
	} else {
		row["deleted_at"] = nil
	}
	return row
}

// FromWire translates an incoming wire row into a local record. The caller
// decides the sync status; FromWire leaves it empty.
//
// A non-null deleted_at is the tombstone marker (record.DeletedAt != nil).
func FromWire(table string, row Row) (*store.Record, error) {
	id, _ := row["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("wire row for %s has no id", table)
	}

	rec := &store.Record{ID: id, Fields: make(map[string]any, len(row))}

	for k, v := range row {
		switch k {
		case "id", "created_at", "updated_at", "deleted_at":
			continue
		}
		if _, skip := localOnly[k]; skip {
			continue
		}
		canon := canonical(table, k)
		if canon != k {
			// alias: only fill when the canonical name is absent
			if _, ok := row[canon]; ok {
				continue
			}
		}
		rec.Fields[canon] = v
	}

	var err error
	if rec.UpdatedAt, err = metaTime(row, "updated_at"); err != nil {
		return nil, fmt.Errorf("wire row %s[%s]: %w", table, id, err)
	}
	if rec.CreatedAt, err = metaTime(row, "created_at"); err != nil {
		return nil, fmt.Errorf("wire row %s[%s]: %w", table, id, err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	if s, ok := row["deleted_at"].(string); ok && s != "" {
		t, err := store.ParseTime(s)
		if err != nil {
			return nil, fmt.Errorf("wire row %s[%s]: %w", table, id, err)
		}
		rec.DeletedAt = &t
	}
	return rec, nil
}

// IsTombstone reports whether an incoming row carries the deletion marker.
func IsTombstone(row Row) bool {
	s, ok := row["deleted_at"].(string)
	return ok && s != ""
}

func canonical(table, field string) string {
	if m, ok := aliases[table]; ok {
		if canon, ok := m[field]; ok {
			return canon
		}
	}
	return field
}

func metaTime(row Row, key string) (time.Time, error) {
	s, ok := row[key].(string)
	if !ok || s == "" {
		return time.Time{}, nil
	}
	return store.ParseTime(s)
}
