package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"listquest/internal/config"
	"listquest/internal/records"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(Heading(IconBolt, "listquest"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.tab == tabStats {
		b.WriteString(m.renderStats())
	} else if len(m.rows) == 0 {
		b.WriteString(Muted.Render(fmt.Sprintf("Nothing here. Press '%s' to add one.", m.cfg.Keys.Add)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows())
	}

	b.WriteString("\n---\n")
	switch {
	case m.editor != nil:
		b.WriteString(m.renderEditBox())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode == modeAdd:
		b.WriteString(m.input.View())
		if suffix := m.app.Complete(m.input.Value()); suffix != "" && m.input.Value() != "" {
			b.WriteString(Muted.Render("  " + keyName(m.cfg.Keys.Complete) + ": " + m.input.Value() + suffix))
		}
	default:
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(Muted.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := range tabCount {
		parts = append(parts, Tab(fmt.Sprintf("%d %s", t+1, t), t == m.tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s/%s tab • %s add • %s done • %s edit • %s delete • %s sort • %s/%s reorder • %s pdf • %s quit",
		k.Up, k.Down, k.PrevTab, k.NextTab, k.Add, keyName(k.Done), k.Edit, k.Delete, k.Sort, k.MoveUp, k.MoveDown, k.Export, k.Quit)
}

func (m Model) renderRows() string {
	var b strings.Builder
	for i, r := range m.rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		line := fmt.Sprintf("%s [ ] %s", cursor, rowText(r))
		if m.cursor == i {
			line = SelectedRow.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func rowText(r *records.Record) string {
	if it := r.Item(); it != nil {
		s := it.Title
		if it.Quantity != nil {
			s += fmt.Sprintf(" (%d %s)", *it.Quantity, it.Unit)
		}
		if it.Location != "" {
			s += Muted.Render(" @ " + it.Location)
		}
		return s
	}
	t := r.Task()
	s := t.Title + Muted.Render("  "+formatDate(t.StartDate))
	if t.Repeat {
		s += Muted.Render(fmt.Sprintf("  %s every %s", IconLoop, t.Interval))
	}
	return s
}

func (m Model) renderDetail() string {
	r := m.selected()
	if r == nil {
		if m.tab == tabStats {
			return ""
		}
		return "Nothing selected"
	}
	var b strings.Builder
	if it := r.Item(); it != nil {
		qty := "(none)"
		if it.Quantity != nil {
			qty = fmt.Sprintf("%d %s", *it.Quantity, it.Unit)
		}
		b.WriteString(LabelValue("Item", it.Title) + "\n")
		b.WriteString(LabelValue("Quantity", qty) + "\n")
		b.WriteString(LabelValue("Location", emptyPlaceholder(it.Location)) + "\n")
		return Panel.Render(strings.TrimRight(b.String(), "\n"))
	}
	t := r.Task()
	b.WriteString(LabelValue("Task", t.Title) + "\n")
	for i, step := range t.Steps() {
		b.WriteString(LabelValue(fmt.Sprintf("Step %d", i+1), step) + "\n")
	}
	b.WriteString(LabelValue("Start", formatDate(t.StartDate)) + "\n")
	if t.Repeat {
		b.WriteString(LabelValue("Repeats", t.Interval.Label()) + "\n")
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderStats() string {
	p := m.app.Progress
	var b strings.Builder
	b.WriteString(Heading(IconTrophy, fmt.Sprintf("Level %d", p.Level())))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(p.Fraction()))
	b.WriteString("\n")
	b.WriteString(Muted.Render(fmt.Sprintf("%d xp, %d to level %d", p.XP(), p.XPToNext(), p.Level()+1)))
	b.WriteString("\n\n")

	b.WriteString(H2.Render("Done") + "\n")
	actions := p.Actions()
	if len(actions) == 0 {
		b.WriteString(Muted.Render("  nothing yet") + "\n")
	}
	for _, c := range actions {
		b.WriteString(fmt.Sprintf("  %-30s %d\n", c.Name, c.Count))
	}

	b.WriteString("\n" + H2.Render(IconCart+" Bought") + "\n")
	purchases := p.Purchases()
	if len(purchases) == 0 {
		b.WriteString(Muted.Render("  nothing yet") + "\n")
	}
	for _, c := range purchases {
		b.WriteString(fmt.Sprintf("  %-30s %d\n", c.Name, c.Count))
	}
	return b.String()
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
