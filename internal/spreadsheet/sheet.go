// Package spreadsheet reads and writes the postings workbook.
package spreadsheet

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/xuri/excelize/v2"

	"go-job-listing-scraper/internal/filter"
	"go-job-listing-scraper/internal/models"
)

const (
	SheetName = "Jobs"
	TableName = "JobsTable"
	// TableStyle is one of Excel's built-in table styles.
	TableStyle = "TableStyleMedium2"
)

// statusFills colors a whole row by the value of its applied column.
var statusFills = []Highlight{
	{Value: models.AppliedYes, Color: "#C6EFCE"},
	{Value: models.AppliedNo, Color: "#FFC7CE"},
	{Value: models.AppliedSkip, Color: "#D9D9D9"},
}

// Highlight fills rows whose status column equals Value.
type Highlight struct {
	Value string
	Color string
}

// Sheet is a fully laid out worksheet, ready to be written.
type Sheet struct {
	Name    string
	Columns []models.Field
	Rows    [][]string
	// LinkColumn and StatusColumn are zero-based, -1 when absent.
	LinkColumn   int
	StatusColumn int
	Highlights   []Highlight
}

// Columns is the header for the configured fields. hash_id and applied are
// always present since the store is rebuilt from them.
func Columns(fields []models.Field) []models.Field {
	cols := slices.Clone(fields)
	for _, required := range []models.Field{models.FieldHashID, models.FieldApplied} {
		if !slices.Contains(cols, required) {
			cols = append(cols, required)
		}
	}
	return cols
}

// SortPostings orders postings newest first, and by company within a date.
// It is two stable passes: company ascending, then posted date descending.
// Unreadable dates sort last.
func SortPostings(postings []models.Posting) []models.Posting {
	sorted := slices.Clone(postings)
	slices.SortStableFunc(sorted, func(a, b models.Posting) int {
		return cmp.Compare(a.Company, b.Company)
	})
	slices.SortStableFunc(sorted, func(a, b models.Posting) int {
		return postedTime(b).Compare(postedTime(a))
	})
	return sorted
}

func postedTime(p models.Posting) time.Time {
	t, _ := filter.ParseStoredDate(p.PostedDate)
	return t
}

// Build lays out postings under the configured fields.
func Build(postings []models.Posting, fields []models.Field) Sheet {
	cols := Columns(fields)
	sheet := Sheet{
		Name:         SheetName,
		Columns:      cols,
		LinkColumn:   slices.Index(cols, models.FieldJobLink),
		StatusColumn: slices.Index(cols, models.FieldApplied),
		Highlights:   statusFills,
	}

	for _, p := range SortPostings(postings) {
		row := make([]string, len(cols))
		for i, f := range cols {
			row[i] = p.Get(f)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// Header returns the column names as written in the first row.
func (s Sheet) Header() []string {
	header := make([]string, len(s.Columns))
	for i, f := range s.Columns {
		header[i] = string(f)
	}
	return header
}

// TableRange covers the header and every row. An empty sheet still spans one
// blank row, since a table needs at least one.
func (s Sheet) TableRange() (string, error) {
	lastRow := len(s.Rows) + 1
	if lastRow < 2 {
		lastRow = 2
	}
	return cellRange(1, 1, len(s.Columns), lastRow)
}

func cellRange(col1, row1, col2, row2 int) (string, error) {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return "", err
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", from, to), nil
}
