package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granja/internal/client/models"
	"granja/internal/common"
)

func TestRecordHealthEventComputesWithdrawal(t *testing.T) {
	st := setupStore(t)
	svc := NewHealthService(st, testLogger())
	ctx := context.Background()

	seed(t, st, "pigs", "pig-1", map[string]any{"tag_number": "A-1", "status": models.StatusActivo})
	seed(t, st, "medications", "med-1", map[string]any{"name": "Oxitetraciclina", "withdrawal_days": 28.0})

	id, err := svc.RecordHealthEvent(ctx, models.HealthEvent{
		PigID:        "pig-1",
		EventType:    "tratamiento",
		MedicationID: "med-1",
		EventDate:    "2025-03-01",
	})
	require.NoError(t, err)

	rec := mustGet(t, st, "health_records", id)
	assert.Equal(t, models.StatusPending, rec.SyncStatus)
	assert.Equal(t, "2025-03-29", rec.Fields["withdrawal_end_date"])
}

func TestRecordHealthEventWithoutMedication(t *testing.T) {
	st := setupStore(t)
	svc := NewHealthService(st, testLogger())
	ctx := context.Background()

	seed(t, st, "pigs", "pig-1", map[string]any{"tag_number": "A-1", "status": models.StatusActivo})

	id, err := svc.RecordHealthEvent(ctx, models.HealthEvent{
		PigID:     "pig-1",
		EventType: "observacion",
		EventDate: "2025-03-01",
	})
	require.NoError(t, err)

	rec := mustGet(t, st, "health_records", id)
	assert.NotContains(t, rec.Fields, "withdrawal_end_date")
}

func TestRecordHealthEventUnknownMedication(t *testing.T) {
	st := setupStore(t)
	svc := NewHealthService(st, testLogger())
	ctx := context.Background()

	seed(t, st, "pigs", "pig-1", map[string]any{"tag_number": "A-1"})

	_, err := svc.RecordHealthEvent(ctx, models.HealthEvent{
		PigID: "pig-1", EventType: "tratamiento", MedicationID: "ghost",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)

	recs, err := st.Query(ctx, "health_records", nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecordHealthEventUnknownAnimal(t *testing.T) {
	svc := NewHealthService(setupStore(t), testLogger())
	_, err := svc.RecordHealthEvent(context.Background(), models.HealthEvent{
		PigID: "ghost", EventType: "tratamiento",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInWithdrawal(t *testing.T) {
	st := setupStore(t)
	svc := NewHealthService(st, testLogger())
	ctx := context.Background()

	seed(t, st, "health_records", "hr-1", map[string]any{
		"pig_id": "pig-1", "event_type": "tratamiento",
		"withdrawal_end_date": "2025-03-29",
	})

	inside, err := svc.InWithdrawal(ctx, "pig-1", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, inside)

	after, err := svc.InWithdrawal(ctx, "pig-1", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, after)
}
