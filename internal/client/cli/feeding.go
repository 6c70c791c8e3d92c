package cli

import (
	"context"
	"fmt"
	"strings"

	"granja/internal/client/services"
)

// Feed registers a feeding, batch or individual.
func (a *App) Feed(ctx context.Context) error {
	feedID, err := GetSimpleText(a.reader, "Feed item id", a.out)
	if err != nil {
		return err
	}
	total, err := GetFloat(a.reader, "Total quantity (kg)", a.out)
	if err != nil {
		return err
	}
	ids, err := GetSimpleText(a.reader, "Animal ids (comma separated; one id = individual)", a.out)
	if err != nil {
		return err
	}

	var targets []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			targets = append(targets, id)
		}
	}

	mode := services.FeedModeBatch
	if len(targets) == 1 {
		mode = services.FeedModeIndividual
	}

	err = a.feeding.RegisterFeeding(ctx, services.FeedingRequest{
		Mode:            mode,
		FeedItemID:      feedID,
		TotalQuantityKg: total,
		TargetIDs:       targets,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Feeding of %.2f kg registered for %d animal(s).\n", total, len(targets))
	return nil
}

// ListFeed prints the feed inventory.
func (a *App) ListFeed(ctx context.Context) error {
	items, err := a.inventory.FeedItems(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No feed items.")
		return nil
	}
	for _, item := range items {
		stock, _ := item.Fields["current_stock_kg"].(float64)
		fmt.Fprintf(a.out, "%s  %s  %.2f kg\n", item.ID, item.Field("name"), stock)
	}
	return nil
}

// AddStock records a feed delivery.
func (a *App) AddStock(ctx context.Context) error {
	feedID, err := GetSimpleText(a.reader, "Feed item id", a.out)
	if err != nil {
		return err
	}
	amount, err := GetFloat(a.reader, "Delivered quantity (kg)", a.out)
	if err != nil {
		return err
	}
	if err := a.inventory.AddStock(ctx, feedID, amount); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Stock updated.")
	return nil
}
