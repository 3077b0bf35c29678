package app

import (
	"io"
	"log/slog"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listquest/internal/records"
	"listquest/internal/recurring"
)

var testToday = civil.Date{Year: 2024, Month: 1, Day: 1}

func newTestApp() *App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, WithClock(func() civil.Date { return testToday }))
}

func intPtr(v int) *int { return &v }

func TestAddTask_DefaultsAndValidation(t *testing.T) {
	a := newTestApp()

	r, err := a.AddTask(ListCurrent, TaskInput{Title: "  Call bank  "})
	require.NoError(t, err)
	assert.Equal(t, "Call bank", r.Task().Title)
	assert.Equal(t, testToday, r.Task().StartDate)

	_, err = a.AddTask(ListCurrent, TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = a.AddTask(ListCurrent, TaskInput{Title: "x", Interval: 9})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = a.AddTask(ListItems, TaskInput{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidField)

	assert.Equal(t, 1, a.Current.Len())
}

func TestEditTask(t *testing.T) {
	a := newTestApp()
	r, err := a.AddTask(ListRepeat, TaskInput{Title: "Laundry"})
	require.NoError(t, err)

	start := civil.Date{Year: 2024, Month: 2, Day: 1}
	require.NoError(t, a.EditTask(ListRepeat, r.ID(), TaskInput{Title: "Laundry", StartDate: start, Repeat: true, Interval: recurring.Weekly}))
	assert.Equal(t, start, r.Task().StartDate)
	assert.True(t, r.Task().Repeat)

	err = a.EditTask(ListRepeat, r.ID(), TaskInput{Title: ""})
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Equal(t, "Laundry", r.Task().Title, "rejected edit leaves the task unchanged")

	assert.ErrorIs(t, a.EditTask(ListCurrent, r.ID(), TaskInput{Title: "x"}), ErrNotFound)
}

func TestCompleteTask_NonRepeating(t *testing.T) {
	a := newTestApp()
	r, err := a.AddTask(ListCurrent, TaskInput{Title: "Call bank"})
	require.NoError(t, err)

	c, err := a.CompleteTask(r.ID())
	require.NoError(t, err)

	assert.Nil(t, c.Next)
	assert.Equal(t, 11, c.Award.XP)
	assert.Equal(t, 1, c.Award.Count)
	assert.Equal(t, 0, a.Current.Len())
	assert.Equal(t, 0, a.Repeat.Len())
	assert.Equal(t, 11, a.Progress.XP())
	assert.Equal(t, " bank", a.Complete("call"))

	_, err = a.CompleteTask(r.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteTask_RepeatingSchedulesOneOccurrence(t *testing.T) {
	a := newTestApp()
	r, err := a.AddTask(ListCurrent, TaskInput{
		Title:     "Water plants",
		FirstStep: "fill can",
		Repeat:    true,
		Interval:  recurring.Weekly,
	})
	require.NoError(t, err)

	c, err := a.CompleteTask(r.ID())
	require.NoError(t, err)

	require.NotNil(t, c.Next)
	assert.Equal(t, 0, a.Current.Len())
	assert.Equal(t, 1, a.Repeat.Len())
	next, err := a.Repeat.Get(c.Next.ID())
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 8}, next.Task().StartDate)
	assert.Equal(t, "fill can", next.Task().FirstStep)
	assert.True(t, next.Task().Repeat)
	assert.Equal(t, 1, a.Progress.ActionCount("Water plants"))
}

func TestDeleteTask_RepeatingReschedulesWithoutXP(t *testing.T) {
	for _, interval := range []recurring.Interval{recurring.Daily, recurring.Weekly, recurring.FourWeekly, recurring.Yearly} {
		t.Run(interval.String(), func(t *testing.T) {
			a := newTestApp()
			r, err := a.AddTask(ListCurrent, TaskInput{Title: "Gym", Repeat: true, Interval: interval})
			require.NoError(t, err)

			next, err := a.DeleteTask(ListCurrent, r.ID(), DeleteOptions{})
			require.NoError(t, err)

			require.NotNil(t, next)
			assert.Equal(t, 1, a.Repeat.Len())
			assert.Equal(t, interval.Days(), next.Task().StartDate.DaysSince(testToday))
			_, err = a.Current.Get(r.ID())
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, 0, a.Progress.XP())
			assert.Equal(t, 0, a.Progress.ActionCount("Gym"))
		})
	}
}

func TestDeleteTask_SkipReschedule(t *testing.T) {
	a := newTestApp()
	r, err := a.AddTask(ListCurrent, TaskInput{Title: "Gym", Repeat: true})
	require.NoError(t, err)

	next, err := a.DeleteTask(ListCurrent, r.ID(), DeleteOptions{SkipReschedule: true})
	require.NoError(t, err)

	assert.Nil(t, next)
	assert.Equal(t, 0, a.Repeat.Len())
	assert.Equal(t, 0, a.Current.Len())
}

func TestDeleteTask_FromRepeatListIsPlain(t *testing.T) {
	a := newTestApp()
	r, err := a.AddTask(ListRepeat, TaskInput{Title: "Gym", Repeat: true})
	require.NoError(t, err)

	next, err := a.DeleteTask(ListRepeat, r.ID(), DeleteOptions{})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, 0, a.Repeat.Len())

	_, err = a.DeleteTask(ListRepeat, r.ID(), DeleteOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRollover(t *testing.T) {
	a := newTestApp()
	due := []civil.Date{
		{Year: 2023, Month: 12, Day: 25},
		testToday,
	}
	for _, d := range due {
		_, err := a.AddTask(ListRepeat, TaskInput{Title: "due " + d.String(), StartDate: d, Repeat: true})
		require.NoError(t, err)
	}
	later, err := a.AddTask(ListRepeat, TaskInput{Title: "later", StartDate: testToday.AddDays(1)})
	require.NoError(t, err)

	moved := a.Rollover(testToday)

	assert.Equal(t, 2, moved)
	assert.Equal(t, []int64{later.ID()}, a.Repeat.IDs())
	var titles []string
	for r := range a.Current.All() {
		titles = append(titles, r.Title())
		assert.True(t, r.Task().Repeat)
	}
	assert.Equal(t, []string{"due 2023-12-25", "due 2024-01-01"}, titles)

	assert.Equal(t, 0, a.Rollover(testToday), "second rollover on the same day moves nothing")
	assert.Equal(t, 2, a.Current.Len())

	assert.Equal(t, 1, a.Rollover(testToday.AddDays(1)))
}

func TestAddTask_RepeatListDefaultsToTomorrow(t *testing.T) {
	a := newTestApp()

	r, err := a.AddTask(ListRepeat, TaskInput{Title: "Later thing"})
	require.NoError(t, err)
	assert.Equal(t, testToday.AddDays(1), r.Task().StartDate)

	assert.Equal(t, 0, a.Rollover(testToday))
	assert.Equal(t, []int64{r.ID()}, a.Repeat.IDs())
	assert.Equal(t, 0, a.Current.Len())
}

func TestRollover_AfterGapRestartsToday(t *testing.T) {
	a := newTestApp()
	_, err := a.AddTask(ListRepeat, TaskInput{Title: "Stretch", StartDate: testToday, Repeat: true, Interval: recurring.Daily})
	require.NoError(t, err)

	late := testToday.AddDays(9)
	require.Equal(t, 1, a.Rollover(late))

	var moved *records.Record
	for r := range a.Current.All() {
		moved = r
	}
	require.NotNil(t, moved)
	assert.Equal(t, late, moved.Task().StartDate)

	c, err := a.CompleteTask(moved.ID())
	require.NoError(t, err)
	require.NotNil(t, c.Next)
	assert.True(t, c.Next.Task().StartDate.After(late), "next occurrence is in the future")
	assert.Equal(t, 0, a.Rollover(late))
	assert.Equal(t, 1, a.Repeat.Len())
}

func TestCompleteThenRolloverCycle(t *testing.T) {
	a := newTestApp()
	r, err := a.AddTask(ListCurrent, TaskInput{Title: "Stretch", Repeat: true, Interval: recurring.Daily})
	require.NoError(t, err)

	_, err = a.CompleteTask(r.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, a.Rollover(testToday))
	assert.Equal(t, 1, a.Rollover(testToday.AddDays(1)))

	var again *records.Record
	for rec := range a.Current.All() {
		again = rec
	}
	require.NotNil(t, again)
	assert.Equal(t, testToday.AddDays(1), again.Task().StartDate)
}

func TestItems(t *testing.T) {
	a := newTestApp()

	_, err := a.AddItem(ItemInput{Title: "Eggs", Quantity: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = a.AddItem(ItemInput{Title: ""})
	assert.ErrorIs(t, err, ErrInvalidField)

	q := 2
	eggs, err := a.AddItem(ItemInput{Title: "Eggs", Quantity: &q, Location: " Farmers Market "})
	require.NoError(t, err)
	q = 7
	assert.Equal(t, 2, *eggs.Item().Quantity, "input quantity is copied")
	assert.Equal(t, "Farmers Market", eggs.Item().Location)

	require.NoError(t, a.EditItem(eggs.ID(), ItemInput{Title: "Eggs", Location: "Farmers Market", Unit: records.Grams}))
	assert.Nil(t, eggs.Item().Quantity)
	assert.Equal(t, records.Grams, eggs.Item().Unit)

	c, err := a.PurchaseItem(eggs.ID())
	require.NoError(t, err)
	assert.Equal(t, 11, c.Award.XP)
	assert.Equal(t, 0, a.Items.Len())
	assert.Equal(t, []string{"Farmers Market"}, a.Progress.Locations())
	assert.Equal(t, "Farmers Market", a.Suggest("Farmers Market"))
	assert.Equal(t, "armers market", a.Complete("F"), "completion suffix is case-folded")

	assert.ErrorIs(t, a.DeleteItem(eggs.ID()), ErrNotFound)
}

func TestSortAndMove(t *testing.T) {
	a := newTestApp()
	for _, loc := range []string{"market", "Bakery", "deli"} {
		_, err := a.AddItem(ItemInput{Title: loc + " thing", Location: loc})
		require.NoError(t, err)
	}

	require.NoError(t, a.Sort(ListItems))
	assert.Equal(t, []int64{2, 3, 1}, a.Items.IDs())

	require.NoError(t, a.Move(ListItems, 1, 2))
	assert.Equal(t, []int64{1, 2, 3}, a.Items.IDs())

	assert.ErrorIs(t, a.Sort(List(7)), ErrInvalidField)
}
