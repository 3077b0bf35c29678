package root

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	dir    string
	config string
	db     string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })
	return env{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		db:     filepath.Join(dir, "test.db"),
	}
}

// run executes the CLI on day with args and returns stdout.
func (e env) run(t *testing.T, day string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", e.config, "--db", e.db, "--today", day))
	err := cmd.Execute()
	return out.String(), err
}

func (e env) mustRun(t *testing.T, day string, args ...string) string {
	t.Helper()
	out, err := e.run(t, day, args...)
	require.NoError(t, err, out)
	return out
}

func TestTaskLifecycle(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "2024-01-01", "task", "add", "Run", "--step", "shoes", "--every", "week")
	assert.Contains(t, out, "Added task #1")

	out = e.mustRun(t, "2024-01-01", "task", "list")
	assert.Contains(t, out, "Run")
	assert.Contains(t, out, "shoes")
	assert.Contains(t, out, "every week")

	out = e.mustRun(t, "2024-01-01", "task", "done", "1")
	assert.Contains(t, out, "+11 xp")
	assert.Contains(t, out, "next on 2024-01-08")

	out = e.mustRun(t, "2024-01-01", "task", "list", "--later")
	assert.Contains(t, out, "2024-01-08")

	out = e.mustRun(t, "2024-01-08", "task", "list")
	assert.Contains(t, out, "Run", "the repeat occurrence rolls into today")

	out = e.mustRun(t, "2024-01-08", "stats")
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "11 (89 to level 2)")
}

func TestRootWithoutTerminalListsToday(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "task", "add", "Stretch")

	out := e.mustRun(t, "2024-01-01")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Stretch")
}

func TestTaskRm(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "task", "add", "Gym", "--repeat")
	e.mustRun(t, "2024-01-01", "task", "add", "Swim", "--repeat")

	out := e.mustRun(t, "2024-01-01", "task", "rm", "1")
	assert.Contains(t, out, "next on 2024-01-02")

	e.mustRun(t, "2024-01-01", "task", "rm", "2", "--no-reschedule")

	out = e.mustRun(t, "2024-01-01", "task", "list", "--later")
	assert.Contains(t, out, "Gym")
	assert.NotContains(t, out, "Swim")

	out = e.mustRun(t, "2024-01-01", "stats")
	assert.Contains(t, out, "0 (100 to level 2)")
}

func TestTaskAddLaterWaitsUntilTomorrow(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "task", "add", "Laundry", "--later")

	out := e.mustRun(t, "2024-01-01", "task", "list")
	assert.NotContains(t, out, "Laundry")
	out = e.mustRun(t, "2024-01-01", "task", "list", "--later")
	assert.Contains(t, out, "2024-01-02")

	out = e.mustRun(t, "2024-01-02", "task", "list")
	assert.Contains(t, out, "Laundry")
}

func TestTaskSortAndMove(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "task", "add", "late", "--later", "--start", "2024-03-01")
	e.mustRun(t, "2024-01-01", "task", "add", "early", "--later", "--start", "2024-02-01")

	out := e.mustRun(t, "2024-01-01", "task", "sort", "--later")
	assert.Less(t, bytes.Index([]byte(out), []byte("early")), bytes.Index([]byte(out), []byte("late")))

	e.mustRun(t, "2024-01-01", "task", "move", "2", "--later")
	out = e.mustRun(t, "2024-01-01", "task", "list", "--later")
	assert.Less(t, bytes.Index([]byte(out), []byte("late")), bytes.Index([]byte(out), []byte("early")))
}

func TestTaskErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "2024-01-01", "task", "done", "7")
	assert.ErrorContains(t, err, "not found")

	_, err = e.run(t, "2024-01-01", "task", "done", "abc")
	assert.ErrorContains(t, err, "positive integer")

	_, err = e.run(t, "2024-01-01", "task", "add", "   ")
	assert.ErrorContains(t, err, "title is required")

	_, err = e.run(t, "2024-01-01", "task", "add", "x", "--every", "fortnight")
	assert.Error(t, err)

	_, err = e.run(t, "2024-13-01", "task", "list")
	assert.ErrorContains(t, err, "invalid --today")
}

func TestShoppingFlow(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "item", "add", "Milk", "--location", "Market", "--qty", "2", "--unit", "kilograms")
	e.mustRun(t, "2024-01-01", "item", "add", "Bread", "--location", "Bakery")

	out := e.mustRun(t, "2024-01-01", "item", "sort")
	assert.Less(t, bytes.Index([]byte(out), []byte("Bread")), bytes.Index([]byte(out), []byte("Milk")))
	assert.Contains(t, out, "(2 kilograms)")

	out = e.mustRun(t, "2024-01-01", "item", "buy", "1")
	assert.Contains(t, out, "+11 xp")

	e.mustRun(t, "2024-01-01", "item", "rm", "2")
	out = e.mustRun(t, "2024-01-01", "item", "list")
	assert.Contains(t, out, "nothing here")

	out = e.mustRun(t, "2024-01-01", "stats")
	assert.Contains(t, out, "Milk")
	assert.Contains(t, out, "Market")

	_, err := e.run(t, "2024-01-01", "item", "add", "Eggs", "--qty=-1")
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "task", "add", "Water plants")
	e.mustRun(t, "2024-01-01", "task", "done", "1")

	out := e.mustRun(t, "2024-01-01", "suggest", "Wa")
	assert.Equal(t, "Water plants\n", out)

	out = e.mustRun(t, "2024-01-01", "suggest", "zz")
	assert.Equal(t, "zz\n", out)
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "2024-01-01", "item", "add", "Milk")

	path := filepath.Join(e.dir, "out", "list.pdf")
	out := e.mustRun(t, "2024-01-01", "export", path)
	assert.Contains(t, out, "PDF written")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestVersion(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "listquest v"+Version+"\n", out.String())
}
