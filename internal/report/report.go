// Package report renders the shopping list and progress stats as a PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-pdf/fpdf"

	"listquest/internal/app"
	"listquest/internal/records"
)

// FileName is the default export name for date.
func FileName(date civil.Date) string {
	return fmt.Sprintf("listquest_%s.pdf", date)
}

// Write renders a's shopping list, today's tasks and stats to w.
func Write(w io.Writer, a *app.App, date civil.Date) error {
	pdf := build(a, date)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WriteFile renders the report into path and returns its absolute path.
func WriteFile(path string, a *app.App, date civil.Date) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	pdf := build(a, date)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func build(a *app.App, date civil.Date) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("listquest "+date.String()), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Shopping list: %s", date)))
	pdf.Ln(12)

	writeItems(pdf, tr, a)
	pdf.Ln(6)
	writeTasks(pdf, tr, a)
	pdf.Ln(6)
	writeStats(pdf, tr, a)
	return pdf
}

func writeItems(pdf *fpdf.Fpdf, tr func(string) string, a *app.App) {
	if a.Items.Len() == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "  - Nothing to buy.")
		pdf.Ln(8)
		return
	}

	// Items are grouped by location in list order; sorting the list first
	// gives one heading per location.
	current := "\x00"
	for r := range a.Items.All() {
		it := r.Item()
		if !strings.EqualFold(it.Location, current) {
			current = it.Location
			heading := it.Location
			if heading == "" {
				heading = "Anywhere"
			}
			pdf.SetFont("Arial", "B", 14)
			pdf.Cell(0, 10, tr(heading))
			pdf.Ln(8)
			pdf.SetFont("Arial", "", 12)
		}
		pdf.Cell(0, 8, tr("  [ ] "+itemLine(it)))
		pdf.Ln(6)
	}
}

func itemLine(it *records.Item) string {
	if it.Quantity == nil {
		return it.Title
	}
	if it.Unit == records.Units {
		return fmt.Sprintf("%s x%d", it.Title, *it.Quantity)
	}
	return fmt.Sprintf("%s %d %s", it.Title, *it.Quantity, it.Unit)
}

func writeTasks(pdf *fpdf.Fpdf, tr func(string) string, a *app.App) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Today")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	if a.Current.Len() == 0 {
		pdf.Cell(0, 8, "  - No tasks.")
		pdf.Ln(8)
		return
	}
	for r := range a.Current.All() {
		t := r.Task()
		line := "  [ ] " + t.Title
		if t.Repeat {
			line += " (every " + t.Interval.String() + ")"
		}
		pdf.Cell(0, 8, tr(line))
		pdf.Ln(6)
		for _, step := range t.Steps() {
			pdf.Cell(0, 8, tr("        - "+step))
			pdf.Ln(6)
		}
	}
}

func writeStats(pdf *fpdf.Fpdf, tr func(string) string, a *app.App) {
	p := a.Progress
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Stats")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Level %d  -  %d XP  (%d to next level)", p.Level(), p.XP(), p.XPToNext()))
	pdf.Ln(8)

	for _, c := range p.Actions() {
		pdf.Cell(0, 8, tr(fmt.Sprintf("  %s: done %d times", c.Name, c.Count)))
		pdf.Ln(6)
	}
	for _, c := range p.Purchases() {
		pdf.Cell(0, 8, tr(fmt.Sprintf("  %s: bought %d times", c.Name, c.Count)))
		pdf.Ln(6)
	}
}
