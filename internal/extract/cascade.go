// Package extract recovers typed job fields from a section of mail text.
//
// Every field is an ordered Cascade of rules. A rule proposes candidates,
// cleans them and validates them; the first candidate that survives wins.
// Rules are plain data so a cascade can be reordered or tested on its own.
package extract

import (
	"regexp"
	"strings"

	"github.com/YKarmar/JobTracker/internal/normalize"
)

// Source 一个 section 的两种形态。Markup 可以为空（摘要类邮件只有纯文本）
type Source struct {
	Markup string
	Text   string
}

// 标记片段首尾被切断的半个标签
var partialTagRe = regexp.MustCompile(`^[^<>]*>|<[^<>]*$`)

// NewSource 从已解码的标记片段构造 Source，片段首尾不完整的标签会被去掉
func NewSource(markup string) Source {
	markup = partialTagRe.ReplaceAllString(markup, "")
	return Source{Markup: markup, Text: normalize.PlainText(markup)}
}

// FromText 只有纯文本的 Source
func FromText(text string) Source {
	return Source{Text: text}
}

// Matcher proposes candidate values in source order.
type Matcher interface {
	Find(src Source) []string
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(src Source) []string

func (f MatcherFunc) Find(src Source) []string { return f(src) }

// Validator 判断清理后的候选值是否可用
type Validator func(string) bool

// Rule 级联中的一步
type Rule struct {
	Name  string
	Match Matcher
	Clean func(string) string
	Valid Validator
}

// Cascade 按顺序尝试的规则列表
type Cascade []Rule

// Extract returns the first candidate that passes its rule's validator.
// Candidates are cleaned before validation; empty values never win.
func (c Cascade) Extract(src Source) (string, bool) {
	v, _, ok := c.ExtractRule(src)
	return v, ok
}

// ExtractRule 同 Extract，并返回命中的规则名
func (c Cascade) ExtractRule(src Source) (string, string, bool) {
	for _, r := range c {
		for _, cand := range r.Match.Find(src) {
			if r.Clean != nil {
				cand = r.Clean(cand)
			}
			cand = strings.TrimSpace(cand)
			if cand == "" {
				continue
			}
			if r.Valid != nil && !r.Valid(cand) {
				continue
			}
			return cand, r.Name, true
		}
	}
	return "", "", false
}

type regexMatcher struct {
	re     *regexp.Regexp
	group  int
	markup bool
}

// RegexMatcher 在纯文本上匹配，返回每个匹配的第 group 个捕获组
func RegexMatcher(re *regexp.Regexp, group int) Matcher {
	return regexMatcher{re: re, group: group}
}

// MarkupRegexMatcher 在标记上匹配
func MarkupRegexMatcher(re *regexp.Regexp, group int) Matcher {
	return regexMatcher{re: re, group: group, markup: true}
}

func (m regexMatcher) Find(src Source) []string {
	s := src.Text
	if m.markup {
		s = src.Markup
	}
	if s == "" {
		return nil
	}
	var out []string
	for _, sub := range m.re.FindAllStringSubmatch(s, -1) {
		if m.group < len(sub) {
			out = append(out, sub[m.group])
		}
	}
	return out
}

// always 返回把任何候选值替换成固定值的清理函数
func always(v string) func(string) string {
	return func(string) string { return v }
}
