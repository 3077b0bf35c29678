// Package progress turns completed tasks and purchases into experience and
// levels, and keeps the per-name counters shown on the stats view.
package progress

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// BaseXP is awarded for every recorded action or purchase.
	BaseXP = 10
	// RepeatBonusCap caps the per-name repeat bonus added to BaseXP.
	RepeatBonusCap = 10
	// FirstLevelXP is the xp needed to leave level 1, and the base of every
	// later level's requirement.
	FirstLevelXP = 100
	// LevelStepXP is added to each level's requirement per level already reached.
	LevelStepXP = 10
)

var ErrInvalidState = errors.New("invalid progress state")

// Award describes the outcome of one recorded action or purchase.
type Award struct {
	Name         string
	Count        int
	XP           int
	LevelsGained int
	Level        int
}

// Count is one name with the number of times it was recorded.
type Count struct {
	Name  string
	Count int
}

// State is the persisted form of a Tracker.
type State struct {
	Level      int
	XP         int
	StartLevel int
	NextLevel  int
	Actions    map[string]int
	Purchases  map[string]int
	Locations  []string
}

// Tracker accumulates action and purchase counts and the level curve.
type Tracker struct {
	level      int
	xp         int
	startLevel int
	nextLevel  int

	actions   map[string]int
	purchases map[string]int
	locations map[string]struct{}
}

func New() *Tracker {
	return &Tracker{
		level:     1,
		nextLevel: FirstLevelXP,
		actions:   make(map[string]int),
		purchases: make(map[string]int),
		locations: make(map[string]struct{}),
	}
}

func awardFor(count int) int {
	return BaseXP + min(RepeatBonusCap, count)
}

// RecordAction counts a completed task named name and awards its xp.
func (t *Tracker) RecordAction(name string) Award {
	t.actions[name]++
	return t.award(name, t.actions[name])
}

// RecordPurchase counts a purchased item and remembers where it was bought.
// Blank locations are not remembered.
func (t *Tracker) RecordPurchase(name, location string) Award {
	t.purchases[name]++
	if strings.TrimSpace(location) != "" {
		t.locations[location] = struct{}{}
	}
	return t.award(name, t.purchases[name])
}

func (t *Tracker) award(name string, count int) Award {
	xp := awardFor(count)
	gained := t.AddXP(xp)
	return Award{Name: name, Count: count, XP: xp, LevelsGained: gained, Level: t.level}
}

// AddXP adds n experience points and levels up as many times as the new
// total requires. It returns the number of levels gained.
func (t *Tracker) AddXP(n int) int {
	if n > 0 {
		t.xp += n
	}
	return t.levelUp()
}

func (t *Tracker) levelUp() int {
	gained := 0
	for t.xp >= t.nextLevel {
		t.startLevel = t.nextLevel
		t.nextLevel += FirstLevelXP + t.level*LevelStepXP
		t.level++
		gained++
	}
	return gained
}

func (t *Tracker) Level() int      { return t.level }
func (t *Tracker) XP() int         { return t.xp }
func (t *Tracker) StartLevel() int { return t.startLevel }
func (t *Tracker) NextLevel() int  { return t.nextLevel }

// XPToNext is the xp still missing for the next level.
func (t *Tracker) XPToNext() int { return t.nextLevel - t.xp }

// Fraction is the progress through the current level, in [0,1).
func (t *Tracker) Fraction() float64 {
	return float64(t.xp-t.startLevel) / float64(t.nextLevel-t.startLevel)
}

// ActionCount returns how often name was completed.
func (t *Tracker) ActionCount(name string) int { return t.actions[name] }

// PurchaseCount returns how often name was purchased.
func (t *Tracker) PurchaseCount(name string) int { return t.purchases[name] }

// Actions lists completed task names, most frequent first.
func (t *Tracker) Actions() []Count { return ranked(t.actions) }

// Purchases lists purchased item names, most frequent first.
func (t *Tracker) Purchases() []Count { return ranked(t.purchases) }

// Locations lists every remembered location in sorted order.
func (t *Tracker) Locations() []string {
	out := make([]string, 0, len(t.locations))
	for loc := range t.locations {
		out = append(out, loc)
	}
	slices.Sort(out)
	return out
}

// Vocabulary is every name and location the tracker knows, for seeding
// autocomplete.
func (t *Tracker) Vocabulary() []string {
	out := make([]string, 0, len(t.actions)+len(t.purchases)+len(t.locations))
	for name := range t.actions {
		out = append(out, name)
	}
	for name := range t.purchases {
		out = append(out, name)
	}
	for loc := range t.locations {
		out = append(out, loc)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func ranked(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// State returns a copy of the tracker suitable for persisting.
func (t *Tracker) State() State {
	s := State{
		Level:      t.level,
		XP:         t.xp,
		StartLevel: t.startLevel,
		NextLevel:  t.nextLevel,
		Actions:    make(map[string]int, len(t.actions)),
		Purchases:  make(map[string]int, len(t.purchases)),
		Locations:  t.Locations(),
	}
	for k, v := range t.actions {
		s.Actions[k] = v
	}
	for k, v := range t.purchases {
		s.Purchases[k] = v
	}
	return s
}

// Restore replaces the tracker's contents with s. A state whose xp already
// reaches the next threshold is levelled up before Restore returns.
func (t *Tracker) Restore(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}

	t.level = s.Level
	t.xp = s.XP
	t.startLevel = s.StartLevel
	t.nextLevel = s.NextLevel
	t.actions = make(map[string]int, len(s.Actions))
	for k, v := range s.Actions {
		t.actions[k] = v
	}
	t.purchases = make(map[string]int, len(s.Purchases))
	for k, v := range s.Purchases {
		t.purchases[k] = v
	}
	t.locations = make(map[string]struct{}, len(s.Locations))
	for _, loc := range s.Locations {
		if strings.TrimSpace(loc) != "" {
			t.locations[loc] = struct{}{}
		}
	}
	t.levelUp()
	return nil
}

func (s State) Validate() error {
	switch {
	case s.Level < 1:
		return fmt.Errorf("%w: level %d", ErrInvalidState, s.Level)
	case s.XP < 0:
		return fmt.Errorf("%w: xp %d", ErrInvalidState, s.XP)
	case s.StartLevel < 0:
		return fmt.Errorf("%w: start level %d", ErrInvalidState, s.StartLevel)
	case s.NextLevel <= s.StartLevel:
		return fmt.Errorf("%w: next level %d not above start %d", ErrInvalidState, s.NextLevel, s.StartLevel)
	case s.StartLevel > s.XP:
		return fmt.Errorf("%w: xp %d below level start %d", ErrInvalidState, s.XP, s.StartLevel)
	}
	for name, n := range s.Actions {
		if n < 0 {
			return fmt.Errorf("%w: action %q count %d", ErrInvalidState, name, n)
		}
	}
	for name, n := range s.Purchases {
		if n < 0 {
			return fmt.Errorf("%w: purchase %q count %d", ErrInvalidState, name, n)
		}
	}
	return nil
}
