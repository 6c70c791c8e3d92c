package cli

import (
	"context"
	"fmt"

	"granja/internal/client/models"
)

// Treat records a health event for one animal.
func (a *App) Treat(ctx context.Context) error {
	pigID, err := GetSimpleText(a.reader, "Animal id", a.out)
	if err != nil {
		return err
	}
	eventType, err := GetSimpleText(a.reader, "Event type (tratamiento/vacunacion/observacion)", a.out)
	if err != nil {
		return err
	}
	medicationID, err := GetSimpleText(a.reader, "Medication id (optional)", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	id, err := a.health.RecordHealthEvent(ctx, models.HealthEvent{
		PigID:        pigID,
		EventType:    eventType,
		MedicationID: medicationID,
		Description:  description,
	})
	if err != nil {
		return err
	}

	rec, err := a.health.HistoryForAnimal(ctx, pigID)
	if err != nil {
		return err
	}
	for _, r := range rec {
		if r.ID == id {
			if end := r.Field("withdrawal_end_date"); end != "" {
				fmt.Fprintf(a.out, "Recorded. Withdrawal until %s.\n", end)
				return nil
			}
		}
	}
	fmt.Fprintln(a.out, "Recorded.")
	return nil
}
