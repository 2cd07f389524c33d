// Package classify maps a LinkedIn sender address to a mail category.
package classify

import (
	"slices"
	"strings"

	"github.com/YKarmar/JobTracker/internal/types"
)

// PlatformDomain 平台发件域名
const PlatformDomain = "linkedin.com"

// Rule is one row of the classification table.
type Rule struct {
	Substring string
	Category  types.Category
}

// 顺序即优先级，第一条命中的规则生效
var senderTable = []Rule{
	{"applications-noreply@linkedin.com", types.CategoryApplicationStatus},
	{"jobalerts-noreply@linkedin.com", types.CategoryJobAlerts},
	{"jobs-noreply@linkedin.com", types.CategoryJobsNoreply},
	{"jobs-listings@linkedin.com", types.CategoryJobsListings},
	{"messages-noreply@linkedin.com", types.CategoryMessages},
	{"notifications-noreply@linkedin.com", types.CategoryNotifications},
	{"updates-noreply@linkedin.com", types.CategoryUpdates},
}

// Table returns a copy of the classification table in precedence order.
func Table() []Rule {
	return slices.Clone(senderTable)
}

// Classify 根据发件人判断邮件类别，大小写不敏感
func Classify(sender string) types.Category {
	s := strings.ToLower(sender)
	for _, r := range senderTable {
		if strings.Contains(s, r.Substring) {
			return r.Category
		}
	}
	return types.CategoryUnknown
}

// IsPlatformSender 发件人是否来自平台域名
func IsPlatformSender(sender string) bool {
	return strings.Contains(strings.ToLower(sender), PlatformDomain)
}
