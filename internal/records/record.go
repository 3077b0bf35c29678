package records

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"listquest/internal/recurring"
)

// Errors returned by stores and field validation.
var (
	// ErrNotFound indicates the id is not live in the target store.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidField indicates a field value was rejected before any mutation.
	ErrInvalidField = errors.New("invalid field")

	// ErrDuplicateID indicates a restore collided with a live id.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrKindMismatch indicates a copy between a task and an item.
	ErrKindMismatch = errors.New("record kind mismatch")
)

// Kind selects which payload the records of a store carry.
type Kind int

const (
	KindTask Kind = iota
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindItem:
		return "item"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Task is the payload of a to-do record.
type Task struct {
	Title      string
	FirstStep  string
	SecondStep string
	ThirdStep  string
	StartDate  civil.Date
	Repeat     bool
	Interval   recurring.Interval
}

// Validate checks the fields a store cannot represent.
func (t *Task) Validate() error {
	if err := t.Interval.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	if !t.StartDate.IsZero() && !t.StartDate.IsValid() {
		return fmt.Errorf("%w: start date %s", ErrInvalidField, t.StartDate)
	}
	return nil
}

// Steps returns the non-empty steps in order.
func (t *Task) Steps() []string {
	var steps []string
	for _, s := range []string{t.FirstStep, t.SecondStep, t.ThirdStep} {
		if strings.TrimSpace(s) != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

// Advance moves the start date forward by one interval.
func (t *Task) Advance() {
	t.StartDate = t.Interval.Advance(t.StartDate)
}

// Unit is the measure a shopping item quantity is expressed in.
type Unit int

const (
	Units Unit = iota
	Ounces
	Pounds
	Milligrams
	Grams
	Kilograms
)

// UnitCount is the number of defined units.
const UnitCount = 6

var unitNames = [UnitCount]string{"units", "ounces", "pounds", "milligrams", "grams", "kilograms"}

func (u Unit) Validate() error {
	if u < Units || u > Kilograms {
		return fmt.Errorf("%w: unit %d", ErrInvalidField, int(u))
	}
	return nil
}

// Next cycles to the following unit.
func (u Unit) Next() Unit {
	return (u + 1) % UnitCount
}

func (u Unit) String() string {
	if u.Validate() != nil {
		return strconv.Itoa(int(u))
	}
	return unitNames[u]
}

// ParseUnit accepts a unit name or its index.
func ParseUnit(s string) (Unit, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return Units, nil
	}
	for i, name := range unitNames {
		if v == name || v+"s" == name {
			return Unit(i), nil
		}
	}
	switch v {
	case "oz":
		return Ounces, nil
	case "lb", "lbs":
		return Pounds, nil
	case "mg":
		return Milligrams, nil
	case "g":
		return Grams, nil
	case "kg":
		return Kilograms, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: unit %q", ErrInvalidField, s)
	}
	u := Unit(n)
	if err := u.Validate(); err != nil {
		return 0, err
	}
	return u, nil
}

// Item is the payload of a shopping-list record.
type Item struct {
	Title    string
	Quantity *int // nil when no quantity was given
	Location string
	Unit     Unit
}

func (it *Item) Validate() error {
	if it.Quantity != nil && *it.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d", ErrInvalidField, *it.Quantity)
	}
	return it.Unit.Validate()
}

// ParseQuantity converts user text into a quantity. Empty text means no
// quantity; anything that is not a non-negative integer is rejected.
func ParseQuantity(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: quantity %q is not a number", ErrInvalidField, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative quantity %d", ErrInvalidField, n)
	}
	return &n, nil
}

// Record is one entry of a Store. Exactly one of the task or item payloads
// is set, matching the store kind. Links are ids owned by the store.
type Record struct {
	id   int64
	prev int64
	next int64

	task *Task
	item *Item
}

// ID is stable for the life of the record, across sorts and moves.
func (r *Record) ID() int64 { return r.id }

func (r *Record) Kind() Kind {
	if r.item != nil {
		return KindItem
	}
	return KindTask
}

// Task returns the task payload, or nil for an item record.
func (r *Record) Task() *Task { return r.task }

// Item returns the item payload, or nil for a task record.
func (r *Record) Item() *Item { return r.item }

// Title is the title of whichever payload the record carries.
func (r *Record) Title() string {
	if r.item != nil {
		return r.item.Title
	}
	if r.task != nil {
		return r.task.Title
	}
	return ""
}

// CopyFields copies every payload field of src into dst. Ids and links are
// left untouched.
func CopyFields(dst, src *Record) error {
	if dst.Kind() != src.Kind() {
		return fmt.Errorf("%w: %s into %s", ErrKindMismatch, src.Kind(), dst.Kind())
	}
	switch src.Kind() {
	case KindTask:
		*dst.task = *src.task
	case KindItem:
		cp := *src.item
		if src.item.Quantity != nil {
			q := *src.item.Quantity
			cp.Quantity = &q
		}
		*dst.item = cp
	}
	return nil
}

func newRecord(kind Kind, id int64) *Record {
	r := &Record{id: id}
	switch kind {
	case KindItem:
		r.item = &Item{Unit: Units}
	default:
		r.task = &Task{Interval: recurring.Daily}
	}
	return r
}
