// Package assemble turns one LinkedIn email into a category-specific
// ParseResult: classify the sender once, then run that category's pipeline
// of segmentation, field extraction and deduplication.
package assemble

import (
	"strconv"
	"strings"

	"github.com/YKarmar/JobTracker/internal/classify"
	"github.com/YKarmar/JobTracker/internal/normalize"
	"github.com/YKarmar/JobTracker/internal/types"
)

// Parser 一个类别的解析流水线
type Parser interface {
	Parse(e types.Email) types.ParseResult
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(e types.Email) types.ParseResult

func (f ParserFunc) Parse(e types.Email) types.ParseResult { return f(e) }

var parsers = map[types.Category]Parser{
	types.CategoryJobAlerts:         ParserFunc(parseJobAlert),
	types.CategoryJobsNoreply:       ParserFunc(parseRecommendations),
	types.CategoryJobsListings:      ParserFunc(parseListing),
	types.CategoryApplicationStatus: ParserFunc(parseApplicationStatus),
	types.CategoryMessages:          ParserFunc(parseMessage),
	types.CategoryNotifications:     ParserFunc(parseNotification),
	types.CategoryUpdates:           ParserFunc(parseUpdate),
	types.CategoryUnknown:           ParserFunc(parseUnknown),
}

// ParserFor 返回类别对应的解析器，未知类别返回 unknown 解析器
func ParserFor(c types.Category) Parser {
	if p, ok := parsers[c]; ok {
		return p
	}
	return parsers[types.CategoryUnknown]
}

// Parse classifies e by sender and runs the matching pipeline. It never
// fails; a record nothing can be extracted from yields a result with only
// the header populated.
func Parse(e types.Email) types.ParseResult {
	return ParserFor(classify.Classify(e.Sender)).Parse(e)
}

// mail 一次解析中共享的正文形态，只计算一次
type mail struct {
	subject string
	lower   string
	markup  string
	text    string
}

func load(e types.Email) mail {
	subject := normalize.Subject(e.Subject)
	markup := normalize.Markup(e.Body)
	return mail{
		subject: subject,
		lower:   strings.ToLower(subject),
		markup:  markup,
		text:    normalize.PlainText(markup),
	}
}

func header(c types.Category, e types.Email, m mail) types.Header {
	return types.Header{
		Category:  c,
		EmailType: c.EmailType(),
		Subject:   m.subject,
		Date:      e.Date,
	}
}

func parseUnknown(e types.Email) types.ParseResult {
	m := mail{subject: normalize.Subject(e.Subject)}
	return &types.UnknownResult{
		Header: header(types.CategoryUnknown, e, m),
		Sender: e.Sender,
	}
}

// atoi 解析正则捕获的数字，失败时返回 0
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
