package ui

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"

	"listquest/internal/app"
	"listquest/internal/records"
	"listquest/internal/recurring"
)

// editor holds the in-progress field values of the record being edited.
type editor struct {
	list   app.List
	id     int64
	labels []string
	values []string
	index  int
}

var (
	taskFields = []string{"title", "first step", "second step", "third step", "start date (YYYY-MM-DD)", "repeat (y/n)", "every (day/week/month/year)"}
	itemFields = []string{"title", "quantity", "location", "unit"}
)

const (
	taskTitle = iota
	taskFirst
	taskSecond
	taskThird
	taskStart
	taskRepeat
	taskEvery
)

const (
	itemTitle = iota
	itemQuantity
	itemLocation
	itemUnit
)

func newEditor(list app.List, r *records.Record) *editor {
	e := &editor{list: list, id: r.ID()}
	if t := r.Task(); t != nil {
		e.labels = taskFields
		e.values = []string{
			t.Title,
			t.FirstStep,
			t.SecondStep,
			t.ThirdStep,
			formatDate(t.StartDate),
			boolToYN(t.Repeat),
			t.Interval.String(),
		}
		return e
	}
	it := r.Item()
	qty := ""
	if it.Quantity != nil {
		qty = strconv.Itoa(*it.Quantity)
	}
	e.labels = itemFields
	e.values = []string{it.Title, qty, it.Location, it.Unit.String()}
	return e
}

func (e *editor) label() string   { return e.labels[e.index] }
func (e *editor) value() string   { return e.values[e.index] }
func (e *editor) set(v string)    { e.values[e.index] = v }
func (e *editor) move(delta int)  { e.index = wrapIndex(e.index+delta, len(e.labels)) }
func (e *editor) last() bool      { return e.index == len(e.labels)-1 }
func (e *editor) isItem() bool    { return e.list == app.ListItems }
func (e *editor) completes() bool { return e.index == 0 || (e.isItem() && e.index == itemLocation) }

func (m Model) startEdit(r *records.Record) (tea.Model, tea.Cmd) {
	list, ok := m.tab.list()
	if !ok {
		return m, nil
	}
	m.editor = newEditor(list, r)
	m.input.SetValue(m.editor.value())
	m.input.Placeholder = m.editor.label()
	m.input.Focus()
	m.mode = modeEdit
	m.status = m.editPrompt()
	return m, nil
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		return m.closeEditor("Edit cancelled"), nil
	case m.cfg.Keys.Complete:
		if m.editor.completes() {
			m.input.SetValue(m.app.Suggest(m.input.Value()))
			m.input.CursorEnd()
		}
		return m, nil
	case "down", "shift+down":
		m.shiftField(1)
		return m, nil
	case "up", "shift+tab":
		m.shiftField(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.editor.set(m.input.Value())
		if m.editor.last() {
			return m.saveEdit()
		}
		m.shiftField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) shiftField(delta int) {
	m.editor.set(m.input.Value())
	m.editor.move(delta)
	m.input.SetValue(m.editor.value())
	m.input.Placeholder = m.editor.label()
	m.status = m.editPrompt()
}

func (m Model) closeEditor(status string) Model {
	m.editor = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.status = status
	return m
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	e := m.editor
	var err error
	if e.isItem() {
		err = m.saveItem(e)
	} else {
		err = m.saveTask(e)
	}
	if err != nil {
		m.status = Bad.Render(err.Error())
		return m, nil
	}
	m = m.closeEditor("Saved")
	m.refresh()
	m.selectID(e.id)
	return m, nil
}

func (m Model) saveTask(e *editor) error {
	start, err := parseDate(e.values[taskStart])
	if err != nil {
		return fmt.Errorf("start date invalid: %w", err)
	}
	every, err := recurring.ParseInterval(e.values[taskEvery])
	if err != nil {
		return err
	}
	return m.app.EditTask(e.list, e.id, app.TaskInput{
		Title:      e.values[taskTitle],
		FirstStep:  e.values[taskFirst],
		SecondStep: e.values[taskSecond],
		ThirdStep:  e.values[taskThird],
		StartDate:  start,
		Repeat:     parseYN(e.values[taskRepeat]),
		Interval:   every,
	})
}

func (m Model) saveItem(e *editor) error {
	qty, err := records.ParseQuantity(e.values[itemQuantity])
	if err != nil {
		return err
	}
	unit, err := records.ParseUnit(e.values[itemUnit])
	if err != nil {
		return err
	}
	return m.app.EditItem(e.id, app.ItemInput{
		Title:    e.values[itemTitle],
		Quantity: qty,
		Location: e.values[itemLocation],
		Unit:     unit,
	})
}

func (m Model) editPrompt() string {
	if m.editor == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, up/down to move.",
		m.editor.label(), m.editor.index+1, len(m.editor.labels))
}

func (m Model) renderEditBox() string {
	if m.editor == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range m.editor.labels {
		prefix := " "
		if i == m.editor.index {
			prefix = ">"
		}
		val := m.editor.values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-28s : %s\n", prefix, name, val))
	}
	return b.String()
}

func parseDate(v string) (civil.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return civil.Date{}, nil
	}
	return civil.ParseDate(v)
}

func formatDate(d civil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
