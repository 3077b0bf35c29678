package storage

import "cloud.google.com/go/civil"

// List names used for task rows and id counters.
const (
	ListCurrent = "current"
	ListRepeat  = "repeat"
	ListItems   = "items"
)

// TaskRow is one persisted task. A zero StartDate is stored as NULL.
type TaskRow struct {
	ID         int64
	Title      string
	FirstStep  string
	SecondStep string
	ThirdStep  string
	StartDate  civil.Date
	Repeat     bool
	Interval   int
}

// ItemRow is one persisted shopping item.
type ItemRow struct {
	ID       int64
	Title    string
	Quantity *int
	Location string
	Unit     int
}

type ProgressRow struct {
	Level      int
	XP         int
	StartLevel int
	NextLevel  int
}

type CountRow struct {
	Name  string
	Count int
}

// SequenceRow keeps a list's next id so ids are not reused after a restart.
type SequenceRow struct {
	List   string
	NextID int64
}

// Snapshot is the full persisted state. Row slices are in list order.
type Snapshot struct {
	CurrentTasks []TaskRow
	RepeatTasks  []TaskRow
	Items        []ItemRow
	// Progress is nil when nothing has been saved yet.
	Progress  *ProgressRow
	Actions   []CountRow
	Purchases []CountRow
	Locations []string
	Sequences []SequenceRow
}

// NextID returns the stored counter for list, or 0.
func (s *Snapshot) NextID(list string) int64 {
	for _, seq := range s.Sequences {
		if seq.List == list {
			return seq.NextID
		}
	}
	return 0
}
