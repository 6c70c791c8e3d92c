package cli

import (
	"context"
	"fmt"

	"granja/internal/client/models"
	"granja/internal/client/services"
)

// Breed records a breeding event and prints the predicted farrowing date.
func (a *App) Breed(ctx context.Context) error {
	damID, err := GetSimpleText(a.reader, "Dam id", a.out)
	if err != nil {
		return err
	}
	sireID, err := GetSimpleText(a.reader, "Sire id (optional)", a.out)
	if err != nil {
		return err
	}
	eventType, err := GetSimpleText(a.reader, "Event type (monta/confirmacion/parto)", a.out)
	if err != nil {
		return err
	}
	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD, empty = today)", a.out)
	if err != nil {
		return err
	}

	if _, err := a.breeding.RecordBreedingEvent(ctx, models.BreedingEvent{
		PigID:     damID,
		SireID:    sireID,
		EventType: eventType,
		EventDate: date,
	}); err != nil {
		return err
	}

	if eventType == "monta" && date != "" {
		if due, err := services.PredictedDueDate(date); err == nil {
			fmt.Fprintf(a.out, "Recorded. Predicted farrowing: %s.\n", due.Format(services.DateLayout))
			return nil
		}
	}
	fmt.Fprintln(a.out, "Recorded.")
	return nil
}
