package cli

import (
	"context"
	"fmt"
	"strconv"

	"granja/internal/client/models"
)

// ListSections prints every section with its pens.
func (a *App) ListSections(ctx context.Context) error {
	sections, err := a.farm.Sections(ctx)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		fmt.Fprintln(a.out, "No sections.")
		return nil
	}
	for _, sec := range sections {
		fmt.Fprintf(a.out, "%s  %s\n", sec.ID, sec.Field("name"))
		pens, err := a.farm.Pens(ctx, sec.ID)
		if err != nil {
			return err
		}
		for _, pen := range pens {
			fmt.Fprintf(a.out, "  %s  %s  capacity=%d\n",
				pen.ID, pen.Field("name"), int(penCapacity(pen.Fields)))
		}
	}
	return nil
}

// NewSection creates a section.
func (a *App) NewSection(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Section name", a.out)
	if err != nil {
		return err
	}
	id, err := a.farm.CreateSection(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Section %s created as %s.\n", name, id)
	return nil
}

// NewPen creates a pen inside a section.
func (a *App) NewPen(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Pen name", a.out)
	if err != nil {
		return err
	}
	sectionID, err := GetSimpleText(a.reader, "Section id", a.out)
	if err != nil {
		return err
	}
	capText, err := GetSimpleText(a.reader, "Capacity", a.out)
	if err != nil {
		return err
	}
	capacity, err := strconv.Atoi(capText)
	if err != nil {
		return fmt.Errorf("not a number: %q", capText)
	}

	id, err := a.farm.CreatePen(ctx, models.Pen{Name: name, SectionID: sectionID, Capacity: capacity})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pen %s created as %s.\n", name, id)
	return nil
}

func penCapacity(fields map[string]any) float64 {
	if v, ok := fields["capacity"].(float64); ok {
		return v
	}
	return 0
}
