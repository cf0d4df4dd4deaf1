package spreadsheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"go-job-listing-scraper/internal/models"
)

// Load reads every posting from the workbook at path. A missing file is an
// empty store. Columns are matched by header name so that rows written under
// an older column order still load.
func Load(path string) ([]models.Posting, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]models.Field, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = models.Field(strings.TrimSpace(name))
	}

	postings := make([]models.Posting, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var p models.Posting
		for i, v := range row {
			if i < len(header) {
				p.Set(header[i], v)
			}
		}
		if p.HashID == "" {
			continue
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// Write replaces the workbook at path with sheet. The file is written next to
// the target and renamed over it, so a failure leaves the old file intact.
func Write(path string, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := render(f, sheet); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".jobs-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp workbook: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func render(f *excelize.File, sheet Sheet) error {
	defaultSheet := f.GetSheetName(0)
	idx, err := f.NewSheet(sheet.Name)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if defaultSheet != sheet.Name {
		f.DeleteSheet(defaultSheet)
	}

	header := make([]interface{}, len(sheet.Columns))
	for i, name := range sheet.Header() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := addLinks(f, sheet); err != nil {
		return err
	}

	tableRange, err := sheet.TableRange()
	if err != nil {
		return err
	}
	stripes := true
	if err := f.AddTable(sheet.Name, &excelize.Table{
		Range:          tableRange,
		Name:           TableName,
		StyleName:      TableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return fmt.Errorf("add table: %w", err)
	}

	return addHighlights(f, sheet)
}

func addLinks(f *excelize.File, sheet Sheet) error {
	if sheet.LinkColumn < 0 || len(sheet.Rows) == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#0563C1", Underline: "single"},
	})
	if err != nil {
		return fmt.Errorf("link style: %w", err)
	}

	for r, row := range sheet.Rows {
		link := row[sheet.LinkColumn]
		if link == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(sheet.LinkColumn+1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellHyperLink(sheet.Name, cell, link, "External"); err != nil {
			return fmt.Errorf("link %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, style); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
	}
	return nil
}

// addHighlights colors each data row by its status cell. The rules are
// rebuilt on every write.
func addHighlights(f *excelize.File, sheet Sheet) error {
	if sheet.StatusColumn < 0 || len(sheet.Rows) == 0 || len(sheet.Highlights) == 0 {
		return nil
	}
	dataRange, err := cellRange(1, 2, len(sheet.Columns), len(sheet.Rows)+1)
	if err != nil {
		return err
	}
	statusCol, err := excelize.ColumnNumberToName(sheet.StatusColumn + 1)
	if err != nil {
		return err
	}

	rules := make([]excelize.ConditionalFormatOptions, 0, len(sheet.Highlights))
	for _, h := range sheet.Highlights {
		style, err := f.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{h.Color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("highlight style: %w", err)
		}
		rules = append(rules, excelize.ConditionalFormatOptions{
			Type:     "formula",
			Criteria: fmt.Sprintf(`$%s2="%s"`, statusCol, h.Value),
			Format:   style,
		})
	}
	if err := f.SetConditionalFormat(sheet.Name, dataRange, rules); err != nil {
		return fmt.Errorf("highlight rows: %w", err)
	}
	return nil
}
