package app

import (
	"fmt"
	"strings"

	"listquest/internal/records"
)

func itemFromInput(in ItemInput) (records.Item, error) {
	it := records.Item(in)
	it.Title = strings.TrimSpace(it.Title)
	it.Location = strings.TrimSpace(it.Location)
	if it.Title == "" {
		return it, fmt.Errorf("%w: title is required", ErrInvalidField)
	}
	if err := it.Validate(); err != nil {
		return it, err
	}
	if it.Quantity != nil {
		q := *it.Quantity
		it.Quantity = &q
	}
	return it, nil
}

// AddItem appends an item to the shopping list.
func (a *App) AddItem(in ItemInput) (*records.Record, error) {
	it, err := itemFromInput(in)
	if err != nil {
		return nil, err
	}
	r := a.Items.Add()
	*r.Item() = it
	a.logger.Debug("item added", "id", r.ID(), "title", it.Title, "location", it.Location)
	return r, nil
}

// EditItem replaces every field of item id.
func (a *App) EditItem(id int64, in ItemInput) error {
	r, err := a.Items.Get(id)
	if err != nil {
		return err
	}
	it, err := itemFromInput(in)
	if err != nil {
		return err
	}
	*r.Item() = it
	return nil
}

// PurchaseItem credits the purchase, teaches autocomplete the item and its
// location, and removes the item.
func (a *App) PurchaseItem(id int64) (*Completion, error) {
	r, err := a.Items.Get(id)
	if err != nil {
		return nil, err
	}
	it := r.Item()

	c := &Completion{Award: a.Progress.RecordPurchase(it.Title, it.Location)}
	a.Words.Insert(it.Title)
	a.Words.Insert(it.Location)
	if err := a.Items.Delete(id); err != nil {
		return nil, err
	}

	a.logger.Info("item purchased",
		"id", id,
		"title", it.Title,
		"location", it.Location,
		"xp", c.Award.XP,
	)
	if c.Award.LevelsGained > 0 {
		a.logger.Info("level up", "level", c.Award.Level, "gained", c.Award.LevelsGained)
	}
	return c, nil
}

func (a *App) DeleteItem(id int64) error {
	if err := a.Items.Delete(id); err != nil {
		return err
	}
	a.logger.Debug("item deleted", "id", id)
	return nil
}
