package cli

import (
	"context"
	"fmt"
	"strings"

	"granja/internal/client/models"
)

// ListAnimals prints the active herd.
func (a *App) ListAnimals(ctx context.Context) error {
	pigs, err := a.herd.ActiveAnimals(ctx)
	if err != nil {
		return err
	}
	if len(pigs) == 0 {
		fmt.Fprintln(a.out, "No active animals.")
		return nil
	}
	for _, p := range pigs {
		pen := p.Field("pen_id")
		if pen == "" {
			pen = "-"
		}
		fmt.Fprintf(a.out, "%s  tag=%s  stage=%s  pen=%s\n",
			p.ID, p.Field("tag_number"), p.Field("stage"), pen)
	}
	return nil
}

// RegisterAnimal prompts for a new animal and creates it.
func (a *App) RegisterAnimal(ctx context.Context) error {
	tag, err := GetSimpleText(a.reader, "Tag number", a.out)
	if err != nil {
		return err
	}
	sex, err := GetSimpleText(a.reader, "Sex (Macho/Hembra)", a.out)
	if err != nil {
		return err
	}
	stage, err := GetSimpleText(a.reader, "Stage (Lechon/Destete/Engorde/Reproductor)", a.out)
	if err != nil {
		return err
	}
	weight, err := GetFloat(a.reader, "Weight (kg)", a.out)
	if err != nil {
		return err
	}

	id, err := a.herd.RegisterAnimal(ctx, models.Pig{
		TagNumber: tag,
		Sex:       sex,
		Stage:     stage,
		Weight:    weight,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Animal %s registered as %s.\n", tag, id)
	return nil
}

// MoveAnimals prompts for a group of animals and a target pen.
func (a *App) MoveAnimals(ctx context.Context) error {
	ids, err := GetSimpleText(a.reader, "Animal ids (comma separated)", a.out)
	if err != nil {
		return err
	}
	pen, err := GetSimpleText(a.reader, "Target pen id", a.out)
	if err != nil {
		return err
	}

	var pigIDs []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			pigIDs = append(pigIDs, id)
		}
	}

	if err := a.herd.MoveAnimals(ctx, pigIDs, pen); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Moved %d animal(s) to %s.\n", len(pigIDs), pen)
	return nil
}

// Weigh records a weight measurement for one animal.
func (a *App) Weigh(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Animal id", a.out)
	if err != nil {
		return err
	}
	weight, err := GetFloat(a.reader, "Weight (kg)", a.out)
	if err != nil {
		return err
	}
	if err := a.herd.RecordWeight(ctx, id, weight, ""); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Weight recorded.")
	return nil
}

// Retire deactivates an animal.
func (a *App) Retire(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Animal id", a.out)
	if err != nil {
		return err
	}
	if err := a.herd.DeactivateAnimal(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Animal deactivated; removal syncs on the next cycle.")
	return nil
}
