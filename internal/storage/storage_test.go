package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "listquest.db")
	s, err := Open(context.Background(), path, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func intPtr(v int) *int { return &v }

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		CurrentTasks: []TaskRow{
			{ID: 4, Title: "Water plants", FirstStep: "fill can", StartDate: civil.Date{Year: 2024, Month: 3, Day: 9}, Repeat: true, Interval: 1},
			{ID: 2, Title: "Call bank"},
		},
		RepeatTasks: []TaskRow{
			{ID: 1, Title: "Laundry", SecondStep: "fold", ThirdStep: "put away", StartDate: civil.Date{Year: 2024, Month: 4, Day: 1}, Repeat: true, Interval: 3},
		},
		Items: []ItemRow{
			{ID: 3, Title: "Flour", Quantity: intPtr(2), Location: "Bakery", Unit: 5},
			{ID: 1, Title: "Eggs", Quantity: intPtr(0), Location: "Market"},
			{ID: 7, Title: "Salt", Location: ""},
		},
		Progress:  &ProgressRow{Level: 2, XP: 130, StartLevel: 100, NextLevel: 210},
		Actions:   []CountRow{{Name: "Laundry", Count: 3}, {Name: "Run", Count: 1}},
		Purchases: []CountRow{{Name: "Milk", Count: 2}},
		Locations: []string{"Bakery", "Market"},
		Sequences: []SequenceRow{
			{List: ListCurrent, NextID: 5},
			{List: ListItems, NextID: 8},
			{List: ListRepeat, NextID: 2},
		},
	}
}

func TestOpen_CreatesDirectoryAndSchema(t *testing.T) {
	_, path := openTestStore(t)

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "", discardLogger())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoad_EmptyDatabase(t *testing.T) {
	s, _ := openTestStore(t)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.CurrentTasks)
	assert.Empty(t, snap.RepeatTasks)
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.Progress)
	assert.Zero(t, snap.NextID(ListCurrent))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	want := sampleSnapshot()

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, int64(8), got.NextID(ListItems))
}

func TestSave_ReplacesPreviousContents(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	smaller := &Snapshot{
		Items:    []ItemRow{{ID: 9, Title: "Tea"}},
		Progress: &ProgressRow{Level: 1, XP: 11, StartLevel: 0, NextLevel: 100},
	}
	require.NoError(t, s.Save(ctx, smaller))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.CurrentTasks)
	assert.Empty(t, got.Locations)
	assert.Equal(t, smaller.Items, got.Items)
	assert.Equal(t, smaller.Progress, got.Progress)
}

func TestSave_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "listquest.db")

	s, err := Open(ctx, path, discardLogger())
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path, discardLogger())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestSave_DuplicateIDRollsBack(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleSnapshot()))

	bad := &Snapshot{Items: []ItemRow{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}}}
	err := s.Save(ctx, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got, "failed save must leave the previous snapshot intact")
}

func TestLoad_ClosedStore(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN("/tmp/lq.db")
	assert.Contains(t, dsn, "file:///tmp/lq.db?")
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "_pragma=busy_timeout")
}

func TestGooseLogger_FatalfLogsWithoutExiting(t *testing.T) {
	var buf bytes.Buffer
	l := gooseLogger{slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.Printf("applied %d migrations\n", 1)
	l.Fatalf("migration %s failed", "00001_init.sql")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "applied 1 migrations")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "migration 00001_init.sql failed")
	assert.Contains(t, out, "component=goose")
}
