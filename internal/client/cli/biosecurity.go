package cli

import (
	"context"
	"fmt"

	"granja/internal/client/models"
)

// LogVisit records a biosecurity access entry.
func (a *App) LogVisit(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Visitor name", a.out)
	if err != nil {
		return err
	}
	company, err := GetSimpleText(a.reader, "Company (optional)", a.out)
	if err != nil {
		return err
	}
	plate, err := GetSimpleText(a.reader, "Vehicle plate (optional)", a.out)
	if err != nil {
		return err
	}
	risk, err := GetSimpleText(a.reader, "Risk level (bajo/medio/alto)", a.out)
	if err != nil {
		return err
	}

	_, err = a.access.LogAccess(ctx, models.AccessLog{
		VisitorName:  name,
		Company:      company,
		VehiclePlate: plate,
		RiskLevel:    risk,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Visit logged.")
	return nil
}
