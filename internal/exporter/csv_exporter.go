package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/YKarmar/JobTracker/internal/types"
)

var jobHeaders = []string{
	"category",
	"collection",
	"job_id",
	"job_url",
	"company",
	"position",
	"location",
	"status",
	"applied_at",
	"tracking_id",
	"ref_id",
	"email_subject",
	"email_date",
}

func (r Row) values() []string {
	return []string{
		string(r.Category),
		r.Collection,
		r.JobID,
		r.JobURL,
		r.Company,
		r.Position,
		r.Location,
		string(r.Status),
		r.AppliedAt,
		r.TrackingID,
		r.RefID,
		r.Subject,
		r.Date,
	}
}

// CSV导出器
type CSVExporter struct {
	filename string
}

func NewCSVExporter(filename string) *CSVExporter {
	return &CSVExporter{filename: filename}
}

// ExportJobs 导出职位记录到CSV文件
func (ce *CSVExporter) ExportJobs(results []types.ParseResult) error {
	return writeFile(ce.filename, func(w io.Writer) error {
		return WriteJobsCSV(w, Rows(results))
	})
}

// ExportStatistics 导出统计信息到CSV文件
func (ce *CSVExporter) ExportStatistics(filename string, results []types.ParseResult) error {
	return writeFile(filename, func(w io.Writer) error {
		return WriteStatisticsCSV(w, Summarize(results))
	})
}

func WriteJobsCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(jobHeaders); err != nil {
		return fmt.Errorf("write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.values()); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteStatisticsCSV 分段写出类别、状态和公司（前10名）统计，段之间空一行
func WriteStatisticsCSV(w io.Writer, s Statistics) error {
	writer := csv.NewWriter(w)
	sections := []struct {
		title  string
		header []string
		counts []Count
	}{
		{"categories", []string{"category", "emails"}, s.Categories},
		{"statuses", []string{"status", "jobs"}, s.Statuses},
		{"top_companies", []string{"company", "jobs"}, top(s.Companies, 10)},
	}

	_ = writer.Write([]string{"emails", strconv.Itoa(s.Emails)})
	_ = writer.Write([]string{"jobs", strconv.Itoa(s.Jobs)})
	for _, sec := range sections {
		_ = writer.Write([]string{})
		_ = writer.Write([]string{sec.title})
		_ = writer.Write(sec.header)
		for _, c := range sec.counts {
			_ = writer.Write([]string{c.Name, strconv.Itoa(c.Count)})
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	return nil
}

func writeFile(name string, write func(io.Writer) error) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
