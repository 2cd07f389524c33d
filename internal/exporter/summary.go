package exporter

import (
	"fmt"
	"io"

	"github.com/YKarmar/JobTracker/internal/types"
)

var statusNames = map[types.Status]string{
	types.StatusApplied:   "已申请",
	types.StatusViewed:    "已查看",
	types.StatusOA:        "在线测试/笔试",
	types.StatusInterview: "面试",
	types.StatusOffer:     "收到Offer",
	types.StatusRejected:  "被拒绝",
	types.StatusWithdrawn: "撤回申请",
	types.StatusOther:     "其他状态",
}

// PrintJobStatistics 打印简要统计信息和每个类别的示例职位
func PrintJobStatistics(w io.Writer, results []types.ParseResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "没有找到可解析的邮件")
		return
	}
	s := Summarize(results)

	fmt.Fprintf(w, "\n=== 求职邮件统计 ===\n")
	fmt.Fprintf(w, "共解析 %d 封邮件，提取 %d 条职位记录\n\n", s.Emails, s.Jobs)

	fmt.Fprintln(w, "邮件类别:")
	for _, c := range s.Categories {
		fmt.Fprintf(w, "  %s: %d 封\n", types.Category(c.Name).EmailType(), c.Count)
	}

	if len(s.Statuses) > 0 {
		fmt.Fprintln(w, "\n状态分布:")
		for _, c := range s.Statuses {
			name := statusNames[types.Status(c.Name)]
			if name == "" {
				name = c.Name
			}
			fmt.Fprintf(w, "  %s: %d 条\n", name, c.Count)
		}
	}

	fmt.Fprintf(w, "\n涉及公司数量: %d 家\n", len(s.Companies))
	if len(s.Companies) > 0 {
		fmt.Fprintln(w, "\n出现最多的公司:")
		for _, c := range top(s.Companies, 5) {
			fmt.Fprintf(w, "  %s: %d 次\n", c.Name, c.Count)
		}
	}

	// 每个类别最多展示 3 条
	shown := map[types.Category]int{}
	printed := false
	for _, row := range Rows(results) {
		if shown[row.Category] >= 3 {
			continue
		}
		if !printed {
			fmt.Fprintln(w, "\n示例职位:")
			printed = true
		}
		shown[row.Category]++
		fmt.Fprintf(w, "• [%s] %s - %s (%s)\n", row.Category, orDash(row.Company), orDash(row.Position), orDash(row.Location))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
