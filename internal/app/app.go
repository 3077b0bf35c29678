// Package app is the application facade: it owns the task and item stores,
// the progress tracker and the autocomplete index, and runs the workflows
// that touch more than one of them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"listquest/internal/progress"
	"listquest/internal/records"
	"listquest/internal/storage"
	"listquest/internal/trie"
)

// Errors surfaced to the CLI and UI.
var (
	ErrNotFound               = records.ErrNotFound
	ErrInvalidField           = records.ErrInvalidField
	ErrPersistenceUnavailable = storage.ErrUnavailable
)

// List selects one of the three record stores.
type List int

const (
	ListCurrent List = iota
	ListRepeat
	ListItems
)

func (l List) String() string {
	switch l {
	case ListCurrent:
		return storage.ListCurrent
	case ListRepeat:
		return storage.ListRepeat
	case ListItems:
		return storage.ListItems
	default:
		return fmt.Sprintf("list(%d)", int(l))
	}
}

// Persister loads and saves whole snapshots. *storage.Store implements it.
type Persister interface {
	Load(ctx context.Context) (*storage.Snapshot, error)
	Save(ctx context.Context, snap *storage.Snapshot) error
}

type App struct {
	// Current holds tasks that are actionable today.
	Current *records.Store
	// Repeat holds future occurrences, moved into Current by Rollover.
	Repeat   *records.Store
	Items    *records.Store
	Progress *progress.Tracker
	Words    *trie.Index

	logger *slog.Logger
	today  func() civil.Date
}

type Option func(*App)

// WithClock overrides how the app learns today's date.
func WithClock(today func() civil.Date) Option {
	return func(a *App) { a.today = today }
}

func New(logger *slog.Logger, opts ...Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		Current:  records.NewStore(records.KindTask),
		Repeat:   records.NewStore(records.KindTask),
		Items:    records.NewStore(records.KindItem),
		Progress: progress.New(),
		Words:    trie.New(),
		logger:   logger,
		today:    func() civil.Date { return civil.DateOf(time.Now()) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Today is the app's notion of the current date.
func (a *App) Today() civil.Date { return a.today() }

// Store returns the store behind list.
func (a *App) Store(list List) (*records.Store, error) {
	switch list {
	case ListCurrent:
		return a.Current, nil
	case ListRepeat:
		return a.Repeat, nil
	case ListItems:
		return a.Items, nil
	default:
		return nil, fmt.Errorf("%w: unknown list %d", ErrInvalidField, int(list))
	}
}

func (a *App) taskStore(list List) (*records.Store, error) {
	if list == ListItems {
		return nil, fmt.Errorf("%w: %s is not a task list", ErrInvalidField, list)
	}
	return a.Store(list)
}

// Sort reorders list by its natural key.
func (a *App) Sort(list List) error {
	s, err := a.Store(list)
	if err != nil {
		return err
	}
	s.Sort()
	a.logger.Debug("list sorted", "list", list, "len", s.Len())
	return nil
}

// Move places record id immediately before beforeID; 0 moves it to the end.
func (a *App) Move(list List, id, beforeID int64) error {
	s, err := a.Store(list)
	if err != nil {
		return err
	}
	return s.Move(id, beforeID)
}

// Complete returns the autocomplete suffix for prefix.
func (a *App) Complete(prefix string) string {
	return a.Words.Complete(prefix)
}

// Suggest returns prefix extended by its autocomplete suffix.
func (a *App) Suggest(prefix string) string {
	return prefix + a.Words.Complete(prefix)
}
