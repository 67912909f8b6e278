// Package parser turns results-table HTML into typed player and episode records
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractRows returns the cell texts of every table row in the document,
// skipping the first skip rows. Cell text is trimmed and inner whitespace
// collapsed to single spaces.
func ExtractRows(htmlContent string, skip int) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML content: %w", err)
	}

	rows := doc.Find("tr")
	slog.Debug("found table rows", "rows", rows.Length(), "skip", skip)
	if rows.Length() <= skip {
		return [][]string{}, nil
	}

	out := make([][]string, 0, rows.Length()-skip)
	rows.Slice(skip, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		out = append(out, cells)
	})
	return out, nil
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}

// DumpTables logs each table's header cells at debug level
func DumpTables(htmlContent, pageTag string) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return
	}
	doc.Find("table").Each(func(i int, t *goquery.Selection) {
		var heads []string
		t.Find("tr").First().Find("th,td").Each(func(_ int, h *goquery.Selection) {
			if txt := cellText(h); txt != "" {
				heads = append(heads, txt)
			}
		})
		slog.Debug("table", "page", pageTag, "index", i, "rows", t.Find("tr").Length(), "headers", strings.Join(heads, "|"))
	})
}
