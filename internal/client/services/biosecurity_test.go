package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granja/internal/client/models"
)

func TestLogAccess(t *testing.T) {
	st := setupStore(t)
	svc := NewAccessService(st, testLogger())
	ctx := context.Background()

	id, err := svc.LogAccess(ctx, models.AccessLog{
		VisitorName:  "Carlos Perez",
		Company:      "Veterinaria del Norte",
		VehiclePlate: "ABC-123",
		RiskLevel:    "alto",
	})
	require.NoError(t, err)

	rec := mustGet(t, st, "access_logs", id)
	assert.Equal(t, models.StatusPending, rec.SyncStatus)
	assert.Equal(t, "Carlos Perez", rec.Fields["visitor_name"])
	assert.Equal(t, "alto", rec.Fields["risk_level"])

	_, err = svc.LogAccess(ctx, models.AccessLog{})
	assert.Error(t, err)
}

func TestRecentAccess(t *testing.T) {
	st := setupStore(t)
	svc := NewAccessService(st, testLogger())
	ctx := context.Background()

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return old }
	_, err := svc.LogAccess(ctx, models.AccessLog{VisitorName: "Antiguo"})
	require.NoError(t, err)

	recent := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return recent }
	_, err = svc.LogAccess(ctx, models.AccessLog{VisitorName: "Reciente"})
	require.NoError(t, err)

	visits, err := svc.RecentAccess(ctx, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "Reciente", visits[0].Fields["visitor_name"])
}
