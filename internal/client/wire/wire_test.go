package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granja/internal/client/models"
	"granja/internal/client/store"
)

func TestToWire(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 2, 12, 30, 0, 0, time.UTC)

	rec := &store.Record{
		ID:         "pig-1",
		CreatedAt:  created,
		UpdatedAt:  updated,
		SyncStatus: models.StatusPending,
		Fields: map[string]any{
			"tag_number": "A-042",
			"stage":      "engorde",
			"syncStatus": "pending",
		},
	}

	row := ToWire("pigs", rec)

	assert.Equal(t, "pig-1", row["id"])
	assert.Equal(t, store.FormatTime(created), row["created_at"])
	assert.Equal(t, store.FormatTime(updated), row["updated_at"])
	assert.Nil(t, row["deleted_at"])
	assert.Equal(t, "A-042", row["tag_number"])
	assert.Equal(t, "engorde", row["stage"])
	assert.NotContains(t, row, "syncStatus")
	assert.NotContains(t, row, "sync_status")
}

func TestToWireTombstone(t *testing.T) {
	deleted := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	rec := &store.Record{
		ID:        "pig-2",
		CreatedAt: deleted.Add(-time.Hour),
		UpdatedAt: deleted,
		DeletedAt: &deleted,
	}

	row := ToWire("pigs", rec)
	assert.Equal(t, store.FormatTime(deleted), row["deleted_at"])
}

func TestToWireFoldsHistoricalAlias(t *testing.T) {
	rec := &store.Record{
		ID:        "pig-3",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Fields: map[string]any{
			"numero_arete": "B-007",
		},
	}

	row := ToWire("pigs", rec)
	assert.Equal(t, "B-007", row["tag_number"])
	assert.NotContains(t, row, "numero_arete")
}

func TestToWireCanonicalWinsOverAlias(t *testing.T) {
	rec := &store.Record{
		ID:        "feed-1",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Fields: map[string]any{
			"current_stock":    10.0,
			"current_stock_kg": 25.5,
		},
	}

	row := ToWire("feed_inventory", rec)
	assert.Equal(t, 25.5, row["current_stock_kg"])
	assert.NotContains(t, row, "current_stock")
}

func TestFromWire(t *testing.T) {
	row := Row{
		"id":         "pig-9",
		"created_at": "2025-03-01T10:00:00Z",
		"updated_at": "2025-03-02T12:30:00Z",
		"deleted_at": nil,
		"tag_number": "C-101",
		"pen_id":     "pen-1",
		"syncStatus": "synced",
	}

	rec, err := FromWire("pigs", row)
	require.NoError(t, err)

	assert.Equal(t, "pig-9", rec.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), rec.CreatedAt)
	assert.Equal(t, time.Date(2025, 3, 2, 12, 30, 0, 0, time.UTC), rec.UpdatedAt)
	assert.Nil(t, rec.DeletedAt)
	assert.Equal(t, "C-101", rec.Fields["tag_number"])
	assert.Equal(t, "pen-1", rec.Fields["pen_id"])
	assert.NotContains(t, rec.Fields, "syncStatus")
	assert.Empty(t, rec.SyncStatus)
}

func TestFromWireFoldsAlias(t *testing.T) {
	row := Row{
		"id":         "fu-1",
		"updated_at": "2025-03-02T12:30:00Z",
		"amount":     3.5,
	}

	rec, err := FromWire("feed_usage", row)
	require.NoError(t, err)
	assert.Equal(t, 3.5, rec.Fields["amount_kg"])
	assert.NotContains(t, rec.Fields, "amount")
}

func TestFromWireAliasLosesToCanonical(t *testing.T) {
	row := Row{
		"id":         "fu-2",
		"updated_at": "2025-03-02T12:30:00Z",
		"amount":     1.0,
		"amount_kg":  2.0,
	}

	rec, err := FromWire("feed_usage", row)
	require.NoError(t, err)
	assert.Equal(t, 2.0, rec.Fields["amount_kg"])
}

func TestFromWireTombstone(t *testing.T) {
	row := Row{
		"id":         "pig-del",
		"updated_at": "2025-03-03T08:00:00Z",
		"deleted_at": "2025-03-03T08:00:00Z",
	}

	require.True(t, IsTombstone(row))

	rec, err := FromWire("pigs", row)
	require.NoError(t, err)
	require.NotNil(t, rec.DeletedAt)
	assert.Equal(t, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), *rec.DeletedAt)
}

func TestFromWireMissingID(t *testing.T) {
	_, err := FromWire("pigs", Row{"updated_at": "2025-03-03T08:00:00Z"})
	assert.Error(t, err)
}

func TestFromWireMissingCreatedAtFallsBackToUpdatedAt(t *testing.T) {
	row := Row{
		"id":         "sec-1",
		"updated_at": "2025-03-02T12:30:00Z",
		"name":       "Maternidad",
	}

	rec, err := FromWire("sections", row)
	require.NoError(t, err)
	assert.Equal(t, rec.UpdatedAt, rec.CreatedAt)
}

func TestFromWireUnknownFieldsPassThrough(t *testing.T) {
	row := Row{
		"id":          "pig-x",
		"updated_at":  "2025-03-02T12:30:00Z",
		"new_feature": "kept",
	}

	rec, err := FromWire("pigs", row)
	require.NoError(t, err)
	assert.Equal(t, "kept", rec.Fields["new_feature"])
}

func TestRoundTripKeepsUnknownFields(t *testing.T) {
	row := Row{
		"id":         "pig-rt",
		"created_at": "2025-03-01T10:00:00Z",
		"updated_at": "2025-03-02T12:30:00Z",
		"genetics":   "duroc",
	}

	rec, err := FromWire("pigs", row)
	require.NoError(t, err)

	out := ToWire("pigs", rec)
	assert.Equal(t, "duroc", out["genetics"])
	assert.Equal(t, "pig-rt", out["id"])
}
