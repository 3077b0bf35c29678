package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconDone   = "✔"
	IconCart   = "🛒"
	IconLoop   = "↻"
	IconTrophy = "★"
	IconBolt   = "▸"
	IconWarn   = "!"
)

// Palette: a light and a dark variant per role.
var (
	inkStrong = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F3F4F6"}
	inkSoft   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	leaf      = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	amber     = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	brick     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	sky       = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#7DD3FC"}
	basket    = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C4B5FD"}
)

var (
	H2    = lipgloss.NewStyle().Bold(true).Foreground(sky).Underline(true)
	Muted = lipgloss.NewStyle().Foreground(inkSoft)
	Good  = lipgloss.NewStyle().Foreground(leaf)
	Warn  = lipgloss.NewStyle().Foreground(amber)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(brick)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(amber)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(sky).
		PaddingLeft(1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(inkStrong)

	heading  = lipgloss.NewStyle().Bold(true).Foreground(inkStrong)
	label    = lipgloss.NewStyle().Foreground(inkSoft).Width(10)
	tabOn    = lipgloss.NewStyle().Bold(true).Foreground(inkStrong).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(sky).Padding(0, 1)
	tabOff   = lipgloss.NewStyle().Foreground(inkSoft).Border(lipgloss.HiddenBorder(), false, false, true, false).Padding(0, 1)
	badgeBox = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)

	BadgeLevelUp = badgeBox.Background(amber).Render("LEVEL UP")
	BadgeBought  = badgeBox.Background(basket).Render(IconCart + " BOUGHT")
)

// Heading renders a section title prefixed by icon.
func Heading(icon, title string) string {
	if icon == "" {
		return heading.Render(title)
	}
	return heading.Render(icon + " " + title)
}

// LabelValue renders a fixed-width label column followed by value.
func LabelValue(name string, value any) string {
	return label.Render(name) + " " + fmt.Sprint(value)
}

// Tab renders one tab header; the active tab is underlined.
func Tab(text string, active bool) string {
	if active {
		return tabOn.Render(text)
	}
	return tabOff.Render(text)
}
