// Package report renders resolved records for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"trip-route-resolver/internal/domain"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// RenderTable returns the records as an aligned pipe table, one line per
// record after the header and separator. Widths are display widths, so
// place names with wide runes stay aligned.
func RenderTable(records []domain.OutputRecord) []string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, domain.OutputColumns)
	for _, r := range records {
		rows = append(rows, r.Values())
	}

	widths := make([]int, len(domain.OutputColumns))
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		lines = append(lines, renderRow(row, widths))
		if i == 0 {
			sep := make([]string, len(widths))
			for j, w := range widths {
				sep[j] = strings.Repeat("-", w)
			}
			lines = append(lines, renderRow(sep, widths))
		}
	}

	return lines
}

func renderRow(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	return sb.String()
}

// WriteSummary prints the table followed by a one-line count.
func WriteSummary(w io.Writer, records []domain.OutputRecord, skipped []string) error {
	for _, line := range RenderTable(records) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	footer := fmt.Sprintf("%d trips resolved", len(records))
	if len(skipped) > 0 {
		footer += fmt.Sprintf(", %d skipped: %s", len(skipped), strings.Join(skipped, ", "))
	}
	if _, err := fmt.Fprintln(w, footer); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
