package exporter

import (
	"cmp"
	"slices"

	"github.com/YKarmar/JobTracker/internal/types"
)

// Row 导出的一行：一个职位记录加上来源邮件的信息
type Row struct {
	Category   types.Category
	Collection string
	Subject    string
	Date       string
	types.JobRecord
}

// Rows 把所有结果里的职位集合展开成行，顺序与输入一致
func Rows(results []types.ParseResult) []Row {
	var rows []Row
	for _, r := range results {
		h := r.Meta()
		for _, c := range r.Collections() {
			for _, j := range c.Jobs {
				rows = append(rows, Row{
					Category:   h.Category,
					Collection: c.Name,
					Subject:    h.Subject,
					Date:       h.Date,
					JobRecord:  j,
				})
			}
		}
	}
	return rows
}

type Count struct {
	Name  string
	Count int
}

// Statistics 一次运行的汇总
type Statistics struct {
	Emails     int
	Jobs       int
	Categories []Count
	Statuses   []Count
	Companies  []Count
}

// Summarize 统计类别、状态和公司分布，各列表按数量降序，数量相同按名称
func Summarize(results []types.ParseResult) Statistics {
	categories := map[string]int{}
	for _, r := range results {
		categories[string(r.Meta().Category)]++
	}

	rows := Rows(results)
	statuses := map[string]int{}
	companies := map[string]int{}
	for _, row := range rows {
		if row.Status != "" {
			statuses[string(row.Status)]++
		}
		if row.Company != "" {
			companies[row.Company]++
		}
	}

	return Statistics{
		Emails:     len(results),
		Jobs:       len(rows),
		Categories: sorted(categories),
		Statuses:   sorted(statuses),
		Companies:  sorted(companies),
	}
}

func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{k, v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func top(c []Count, n int) []Count {
	if len(c) > n {
		return c[:n]
	}
	return c
}
