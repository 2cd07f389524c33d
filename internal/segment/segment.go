// Package segment splits mail text into per-job sections.
package segment

import (
	"iter"
	"regexp"
	"strings"
)

var (
	// DefaultTrailer 摘要邮件中每个职位后面的"招聘状态 + 申请入口"
	DefaultTrailer = regexp.MustCompile(`Actively recruiting\s*(?:Easy Apply)?|Easy Apply`)
	// AppliedMarker 申请状态邮件中每条已申请记录的起始标记
	AppliedMarker = regexp.MustCompile(`applied_jobs-\d+-applied_job`)
	// RecommendedMarker 申请状态邮件中推荐职位的起始标记
	RecommendedMarker = regexp.MustCompile(`recommended_jobs-\d+-recommended_job`)
)

// Section 一段被认为只对应一个职位的文本
type Section struct {
	Index  int
	Marker string
	Text   string
}

// Mode selects how section boundaries are located.
type Mode struct {
	leading bool
	re      *regexp.Regexp
}

// Trailing 每个标记结束一个 section，section 从上一个标记之后开始
func Trailing(re *regexp.Regexp) Mode { return Mode{re: re} }

// Leading 每个 section 从自己的标记开始，到下一个标记或文本末尾结束；第一个标记之前的内容丢弃
func Leading(re *regexp.Regexp) Mode { return Mode{leading: true, re: re} }

// Segment returns the sections of text in source order. The sequence can be
// ranged over any number of times; each pass rescans text.
func Segment(text string, m Mode) iter.Seq[Section] {
	return func(yield func(Section) bool) {
		if m.re == nil || text == "" {
			return
		}
		locs := m.re.FindAllStringIndex(text, -1)
		idx := 0
		emit := func(marker, body string) bool {
			body = strings.TrimSpace(body)
			if body == "" {
				return true
			}
			s := Section{Index: idx, Marker: marker, Text: body}
			idx++
			return yield(s)
		}

		if m.leading {
			for i, loc := range locs {
				end := len(text)
				if i+1 < len(locs) {
					end = locs[i+1][0]
				}
				if !emit(text[loc[0]:loc[1]], text[loc[0]:end]) {
					return
				}
			}
			return
		}

		start := 0
		for _, loc := range locs {
			if !emit(text[loc[0]:loc[1]], text[start:loc[0]]) {
				return
			}
			start = loc[1]
		}
	}
}

// Collect 把序列收集成切片
func Collect(seq iter.Seq[Section]) []Section {
	var out []Section
	for s := range seq {
		out = append(out, s)
	}
	return out
}
