package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"listquest/internal/progress"
	"listquest/internal/records"
	"listquest/internal/recurring"
	"listquest/internal/storage"
	"listquest/internal/trie"
)

// Snapshot captures everything that must survive a restart, in list order.
func (a *App) Snapshot() *storage.Snapshot {
	snap := &storage.Snapshot{
		CurrentTasks: taskRows(a.Current),
		RepeatTasks:  taskRows(a.Repeat),
		Sequences: []storage.SequenceRow{
			{List: storage.ListCurrent, NextID: a.Current.NextID()},
			{List: storage.ListItems, NextID: a.Items.NextID()},
			{List: storage.ListRepeat, NextID: a.Repeat.NextID()},
		},
	}
	for r := range a.Items.All() {
		it := r.Item()
		row := storage.ItemRow{
			ID:       r.ID(),
			Title:    it.Title,
			Location: it.Location,
			Unit:     int(it.Unit),
		}
		if it.Quantity != nil {
			q := *it.Quantity
			row.Quantity = &q
		}
		snap.Items = append(snap.Items, row)
	}

	st := a.Progress.State()
	snap.Progress = &storage.ProgressRow{
		Level:      st.Level,
		XP:         st.XP,
		StartLevel: st.StartLevel,
		NextLevel:  st.NextLevel,
	}
	for _, c := range a.Progress.Actions() {
		snap.Actions = append(snap.Actions, storage.CountRow{Name: c.Name, Count: c.Count})
	}
	for _, c := range a.Progress.Purchases() {
		snap.Purchases = append(snap.Purchases, storage.CountRow{Name: c.Name, Count: c.Count})
	}
	snap.Locations = st.Locations
	return snap
}

func taskRows(s *records.Store) []storage.TaskRow {
	var rows []storage.TaskRow
	for r := range s.All() {
		t := r.Task()
		rows = append(rows, storage.TaskRow{
			ID:         r.ID(),
			Title:      t.Title,
			FirstStep:  t.FirstStep,
			SecondStep: t.SecondStep,
			ThirdStep:  t.ThirdStep,
			StartDate:  t.StartDate,
			Repeat:     t.Repeat,
			Interval:   int(t.Interval),
		})
	}
	return rows
}

// Restore rebuilds the app from snap, keeping stored ids and order. On
// error the app is left as it was.
func (a *App) Restore(snap *storage.Snapshot) error {
	current, err := restoreTasks(snap.CurrentTasks, snap.NextID(storage.ListCurrent))
	if err != nil {
		return fmt.Errorf("restore current tasks: %w", err)
	}
	repeat, err := restoreTasks(snap.RepeatTasks, snap.NextID(storage.ListRepeat))
	if err != nil {
		return fmt.Errorf("restore repeat tasks: %w", err)
	}
	items, err := restoreItems(snap.Items, snap.NextID(storage.ListItems))
	if err != nil {
		return fmt.Errorf("restore items: %w", err)
	}

	tracker := progress.New()
	if snap.Progress != nil {
		st := progress.State{
			Level:      snap.Progress.Level,
			XP:         snap.Progress.XP,
			StartLevel: snap.Progress.StartLevel,
			NextLevel:  snap.Progress.NextLevel,
			Actions:    make(map[string]int, len(snap.Actions)),
			Purchases:  make(map[string]int, len(snap.Purchases)),
			Locations:  snap.Locations,
		}
		for _, c := range snap.Actions {
			st.Actions[c.Name] = c.Count
		}
		for _, c := range snap.Purchases {
			st.Purchases[c.Name] = c.Count
		}
		if err := tracker.Restore(st); err != nil {
			return fmt.Errorf("restore progress: %w", err)
		}
	}

	words := trie.New()
	for _, w := range tracker.Vocabulary() {
		words.Insert(w)
	}

	a.Current, a.Repeat, a.Items = current, repeat, items
	a.Progress, a.Words = tracker, words
	a.logger.Debug("state restored",
		"current", current.Len(),
		"repeat", repeat.Len(),
		"items", items.Len(),
		"level", tracker.Level(),
	)
	return nil
}

func restoreTasks(rows []storage.TaskRow, nextID int64) (*records.Store, error) {
	s := records.NewStore(records.KindTask)
	for _, row := range rows {
		t := records.Task{
			Title:      row.Title,
			FirstStep:  row.FirstStep,
			SecondStep: row.SecondStep,
			ThirdStep:  row.ThirdStep,
			StartDate:  row.StartDate,
			Repeat:     row.Repeat,
			Interval:   recurring.Interval(row.Interval),
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", row.ID, err)
		}
		r, err := s.Restore(row.ID)
		if err != nil {
			return nil, err
		}
		*r.Task() = t
	}
	s.SetNextID(nextID)
	return s, nil
}

func restoreItems(rows []storage.ItemRow, nextID int64) (*records.Store, error) {
	s := records.NewStore(records.KindItem)
	for _, row := range rows {
		it := records.Item{
			Title:    row.Title,
			Location: row.Location,
			Unit:     records.Unit(row.Unit),
		}
		if row.Quantity != nil {
			q := *row.Quantity
			it.Quantity = &q
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", row.ID, err)
		}
		r, err := s.Restore(row.ID)
		if err != nil {
			return nil, err
		}
		*r.Item() = it
	}
	s.SetNextID(nextID)
	return s, nil
}

// Load replaces the app state with what p holds, then rolls over tasks due
// by today.
func (a *App) Load(ctx context.Context, p Persister, today civil.Date) error {
	snap, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if err := a.Restore(snap); err != nil {
		return err
	}
	a.Rollover(today)
	return nil
}

// Save writes the current state through p.
func (a *App) Save(ctx context.Context, p Persister) error {
	return p.Save(ctx, a.Snapshot())
}
