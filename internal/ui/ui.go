package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"listquest/internal/app"
	"listquest/internal/config"
	"listquest/internal/records"
	"listquest/internal/report"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

type tab int

const (
	tabToday tab = iota
	tabLater
	tabShopping
	tabStats
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabToday:
		return "Today"
	case tabLater:
		return "Later"
	case tabShopping:
		return "Shopping"
	default:
		return "Stats"
	}
}

// list maps a tab to its record list; ok is false for the stats tab.
func (t tab) list() (app.List, bool) {
	switch t {
	case tabToday:
		return app.ListCurrent, true
	case tabLater:
		return app.ListRepeat, true
	case tabShopping:
		return app.ListItems, true
	default:
		return 0, false
	}
}

type Model struct {
	app        *app.App
	cfg        config.Config
	tab        tab
	rows       []*records.Record
	cursor     int
	mode       mode
	input      textinput.Model
	bar        progress.Model
	status     string
	confirmDel bool
	pendingDel *records.Record
	editor     *editor
}

// New builds the model over a. The caller owns loading and saving a.
func New(a *app.App, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		app:    a,
		cfg:    cfg,
		tab:    tabToday,
		input:  ti,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to finish, '%s' to delete.", cfg.Keys.Add, keyName(cfg.Keys.Done), cfg.Keys.Delete),
	}
	m.refresh()
	return m
}

// Run blocks until the user quits.
func Run(a *app.App, cfg config.Config) error {
	_, err := tea.NewProgram(New(a, cfg), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editor != nil {
			return m.updateEditMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
		m.bar.Width = max(min(msg.Width-20, 60), 10)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode == modeAdd {
		return m.updateAddMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Complete:
		m.input.SetValue(m.app.Suggest(m.input.Value()))
		m.input.CursorEnd()
		return m, nil
	case m.cfg.Keys.Confirm:
		title := strings.TrimSpace(m.input.Value())
		list, _ := m.tab.list()
		var (
			r   *records.Record
			err error
		)
		if list == app.ListItems {
			r, err = m.app.AddItem(app.ItemInput{Title: title})
		} else {
			r, err = m.app.AddTask(list, app.TaskInput{Title: title})
		}
		if err != nil {
			m.status = Bad.Render(fmt.Sprintf("add failed: %v", err))
			return m, nil
		}
		m.refresh()
		m.selectID(r.ID())
		m.status = fmt.Sprintf("Added %q. Press '%s' to fill in details.", title, m.cfg.Keys.Edit)
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case m.cfg.Keys.NextTab, "right":
		m.switchTab((m.tab + 1) % tabCount)
	case m.cfg.Keys.PrevTab, "left":
		m.switchTab((m.tab + tabCount - 1) % tabCount)
	case "1", "2", "3", "4":
		m.switchTab(tab(key[0] - '1'))
	case m.cfg.Keys.Add:
		if _, ok := m.tab.list(); !ok {
			return m, nil
		}
		m.mode = modeAdd
		m.input.Placeholder = "Title"
		m.input.Focus()
		m.status = fmt.Sprintf("Add to %s: type a title, %s to autocomplete, Enter to save", m.tab, keyName(m.cfg.Keys.Complete))
	case m.cfg.Keys.Done:
		return m.finishSelected()
	case m.cfg.Keys.Delete:
		r := m.selected()
		if r == nil {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = r
		prompt := fmt.Sprintf("Delete %q? y/n", r.Title())
		if m.tab == tabToday && r.Task().Repeat {
			prompt = fmt.Sprintf("Delete %q? y = keep next occurrence, %s = drop the repeat, n = cancel", r.Title(), m.cfg.Keys.SkipRepeat)
		}
		m.status = Warn.Render(prompt)
	case m.cfg.Keys.Edit:
		r := m.selected()
		if r == nil {
			m.status = "Nothing to edit"
			return m, nil
		}
		return m.startEdit(r)
	case m.cfg.Keys.Sort:
		list, ok := m.tab.list()
		if !ok {
			return m, nil
		}
		if err := m.app.Sort(list); err != nil {
			m.status = Bad.Render(err.Error())
			return m, nil
		}
		id := m.selectedID()
		m.refresh()
		m.selectID(id)
		if list == app.ListItems {
			m.status = "Sorted by location"
		} else {
			m.status = "Sorted by start date"
		}
	case m.cfg.Keys.MoveUp:
		return m.moveSelected(-1)
	case m.cfg.Keys.MoveDown:
		return m.moveSelected(1)
	case m.cfg.Keys.Export:
		return m.export()
	}
	return m, nil
}

func (m Model) finishSelected() (tea.Model, tea.Cmd) {
	r := m.selected()
	if r == nil {
		return m, nil
	}
	var (
		c   *app.Completion
		err error
	)
	switch m.tab {
	case tabToday:
		c, err = m.app.CompleteTask(r.ID())
	case tabShopping:
		c, err = m.app.PurchaseItem(r.ID())
	default:
		m.status = fmt.Sprintf("%q starts on %s", r.Title(), r.Task().StartDate)
		return m, nil
	}
	if err != nil {
		m.status = Bad.Render(err.Error())
		return m, nil
	}
	m.refresh()
	m.status = awardText(r.Title(), c)
	if m.tab == tabShopping {
		m.status = BadgeBought + " " + m.status
	}
	return m, nil
}

func awardText(title string, c *app.Completion) string {
	s := Good.Render(fmt.Sprintf("%s %s +%d xp", IconDone, title, c.Award.XP))
	if c.Next != nil {
		s += Muted.Render(fmt.Sprintf("  %s next on %s", IconLoop, c.Next.Task().StartDate))
	}
	if c.Award.LevelsGained > 0 {
		s += "  " + BadgeLevelUp + Gold.Render(fmt.Sprintf(" level %d", c.Award.Level))
	}
	return s
}

func (m Model) moveSelected(dir int) (tea.Model, tea.Cmd) {
	list, ok := m.tab.list()
	r := m.selected()
	if !ok || r == nil {
		return m, nil
	}
	target := m.cursor + dir
	if target < 0 || target >= len(m.rows) {
		return m, nil
	}
	// Moving down means landing before the row two below, or at the end.
	var before int64
	switch {
	case dir < 0:
		before = m.rows[target].ID()
	case target+1 < len(m.rows):
		before = m.rows[target+1].ID()
	}
	if err := m.app.Move(list, r.ID(), before); err != nil {
		m.status = Bad.Render(err.Error())
		return m, nil
	}
	m.refresh()
	m.selectID(r.ID())
	return m, nil
}

func (m Model) export() (tea.Model, tea.Cmd) {
	today := m.app.Today()
	path := filepath.Join(m.cfg.ExportDir, report.FileName(today))
	abs, err := report.WriteFile(path, m.app, today)
	if err != nil {
		m.status = Bad.Render(fmt.Sprintf("export failed: %v", err))
		return m, nil
	}
	m.status = Good.Render("PDF written: " + abs)
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	skip := key == m.cfg.Keys.SkipRepeat
	switch {
	case key == "n" || key == "N" || key == m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case key == "y" || key == "Y" || skip:
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		r := m.pendingDel
		m.confirmDel = false
		m.pendingDel = nil

		list, _ := m.tab.list()
		var (
			next *records.Record
			err  error
		)
		if list == app.ListItems {
			err = m.app.DeleteItem(r.ID())
		} else {
			next, err = m.app.DeleteTask(list, r.ID(), app.DeleteOptions{SkipReschedule: skip})
		}
		if err != nil && !errors.Is(err, app.ErrNotFound) {
			m.status = Bad.Render(fmt.Sprintf("delete failed: %v", err))
			return m, nil
		}
		m.refresh()
		m.status = "Deleted " + r.Title()
		if next != nil {
			m.status += Muted.Render(fmt.Sprintf("  %s next on %s", IconLoop, next.Task().StartDate))
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) switchTab(t tab) {
	if t < 0 || t >= tabCount {
		return
	}
	m.tab = t
	m.cursor = 0
	m.refresh()
	m.status = ""
}

// refresh re-reads the rows of the current tab.
func (m *Model) refresh() {
	m.rows = nil
	list, ok := m.tab.list()
	if !ok {
		m.cursor = 0
		return
	}
	s, err := m.app.Store(list)
	if err != nil {
		return
	}
	for r := range s.All() {
		m.rows = append(m.rows, r)
	}
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m *Model) selectID(id int64) {
	for i, r := range m.rows {
		if r.ID() == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() *records.Record {
	if len(m.rows) == 0 {
		return nil
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))]
}

func (m Model) selectedID() int64 {
	if r := m.selected(); r != nil {
		return r.ID()
	}
	return 0
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
