package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/YKarmar/JobTracker/internal/types"
)

const (
	jobsSheet  = "Jobs"
	statsSheet = "Statistics"
)

// BuildWorkbook 生成两个工作表：职位明细和统计
func BuildWorkbook(results []types.ParseResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", jobsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(statsSheet); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range jobHeaders {
		write(jobsSheet, i+1, 1, h)
	}
	for r, row := range Rows(results) {
		for c, v := range row.values() {
			write(jobsSheet, c+1, r+2, v)
		}
	}
	_ = f.SetColWidth(jobsSheet, "C", "C", 14) // job_id
	_ = f.SetColWidth(jobsSheet, "D", "D", 44) // url
	_ = f.SetColWidth(jobsSheet, "E", "G", 28)
	_ = f.SetPanes(jobsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	s := Summarize(results)
	row := 1
	write(statsSheet, 1, row, "emails")
	write(statsSheet, 2, row, s.Emails)
	row++
	write(statsSheet, 1, row, "jobs")
	write(statsSheet, 2, row, s.Jobs)
	for _, sec := range []struct {
		title  string
		counts []Count
	}{
		{"categories", s.Categories},
		{"statuses", s.Statuses},
		{"top_companies", top(s.Companies, 10)},
	} {
		row += 2
		write(statsSheet, 1, row, sec.title)
		for _, c := range sec.counts {
			row++
			write(statsSheet, 1, row, c.Name)
			write(statsSheet, 2, row, c.Count)
		}
	}
	_ = f.SetColWidth(statsSheet, "A", "A", 28)
	return f, nil
}

func ExportXLSX(filename string, results []types.ParseResult) error {
	f, err := BuildWorkbook(results)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
