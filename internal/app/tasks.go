package app

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"listquest/internal/progress"
	"listquest/internal/records"
)

// TaskInput carries user-entered task fields. A zero StartDate means today.
type TaskInput records.Task

// ItemInput carries user-entered item fields.
type ItemInput records.Item

// Completion is the outcome of completing a task or purchasing an item.
type Completion struct {
	Award progress.Award
	// Next is the rescheduled occurrence in the repeat list, if any.
	Next *records.Record
}

// DeleteOptions tunes DeleteTask.
type DeleteOptions struct {
	// SkipReschedule drops a repeating task without scheduling its next
	// occurrence.
	SkipReschedule bool
}

// defaultStart is today for the current list and tomorrow for the repeat
// list, so a new repeat entry is not rolled straight back into today.
func (a *App) defaultStart(list List) civil.Date {
	if list == ListRepeat {
		return a.today().AddDays(1)
	}
	return a.today()
}

func (a *App) taskFromInput(list List, in TaskInput) (records.Task, error) {
	t := records.Task(in)
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return t, fmt.Errorf("%w: title is required", ErrInvalidField)
	}
	if t.StartDate.IsZero() {
		t.StartDate = a.defaultStart(list)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// AddTask appends a task to list.
func (a *App) AddTask(list List, in TaskInput) (*records.Record, error) {
	s, err := a.taskStore(list)
	if err != nil {
		return nil, err
	}
	t, err := a.taskFromInput(list, in)
	if err != nil {
		return nil, err
	}
	r := s.Add()
	*r.Task() = t
	a.logger.Debug("task added", "list", list, "id", r.ID(), "title", t.Title)
	return r, nil
}

// EditTask replaces every field of task id in list.
func (a *App) EditTask(list List, id int64, in TaskInput) error {
	s, err := a.taskStore(list)
	if err != nil {
		return err
	}
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	t, err := a.taskFromInput(list, in)
	if err != nil {
		return err
	}
	*r.Task() = t
	return nil
}

// CompleteTask marks current task id as done. The action is credited, and a
// repeating task gets exactly one next occurrence in the repeat list.
func (a *App) CompleteTask(id int64) (*Completion, error) {
	r, err := a.Current.Get(id)
	if err != nil {
		return nil, err
	}
	title := r.Task().Title

	c := &Completion{Award: a.Progress.RecordAction(title)}
	a.Words.Insert(title)
	if r.Task().Repeat {
		c.Next = a.scheduleNext(r)
	}
	if err := a.Current.Delete(id); err != nil {
		return nil, err
	}

	a.logger.Info("task completed",
		"id", id,
		"title", title,
		"xp", c.Award.XP,
		"level", c.Award.Level,
	)
	if c.Award.LevelsGained > 0 {
		a.logger.Info("level up", "level", c.Award.Level, "gained", c.Award.LevelsGained)
	}
	return c, nil
}

// DeleteTask removes task id from list. Deleting a repeating task from the
// current list still schedules its next occurrence unless opts says not to.
// No experience is awarded.
func (a *App) DeleteTask(list List, id int64, opts DeleteOptions) (*records.Record, error) {
	s, err := a.taskStore(list)
	if err != nil {
		return nil, err
	}
	r, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var next *records.Record
	if list == ListCurrent && r.Task().Repeat && !opts.SkipReschedule {
		next = a.scheduleNext(r)
		a.logger.Info("task rescheduled", "id", id, "next_id", next.ID(), "start", next.Task().StartDate)
	}
	if err := s.Delete(id); err != nil {
		return nil, err
	}
	a.logger.Debug("task deleted", "list", list, "id", id)
	return next, nil
}

// scheduleNext adds a copy of r to the repeat list advanced by one interval.
func (a *App) scheduleNext(r *records.Record) *records.Record {
	next := a.Repeat.Add()
	// Both records are tasks, so the copy cannot fail.
	_ = records.CopyFields(next, r)
	if next.Task().StartDate.IsZero() {
		next.Task().StartDate = a.today()
	}
	next.Task().Advance()
	return next
}

// Rollover moves every repeat-list task starting on or before today into the
// current list, restarting it today, and reports how many moved. A second
// call on the same day moves nothing.
func (a *App) Rollover(today civil.Date) int {
	var due []*records.Record
	for r := range a.Repeat.All() {
		if !r.Task().StartDate.After(today) {
			due = append(due, r)
		}
	}

	for _, r := range due {
		moved := a.Current.Add()
		// Both stores hold tasks and r was just read from Repeat, so neither
		// the copy nor the delete can fail.
		_ = records.CopyFields(moved, r)
		moved.Task().StartDate = today
		_ = a.Repeat.Delete(r.ID())
	}
	if len(due) > 0 {
		a.logger.Info("rollover", "date", today, "moved", len(due))
	}
	return len(due)
}
