package assemble

import (
	"regexp"
	"strings"

	"github.com/YKarmar/JobTracker/internal/extract"
	"github.com/YKarmar/JobTracker/internal/types"
)

var (
	viewerCountRe   = regexp.MustCompile(`(\d+)\s+(?:people|recruiters|professionals)`)
	senderNameRe    = regexp.MustCompile(`from (\p{Lu}\p{Ll}+ \p{Lu}\p{Ll}+)`)
	unreadRe        = regexp.MustCompile(`(\d+)\s+unread\s+notification`)
	bodyViewsRe     = regexp.MustCompile(`(?i)(\d+)\s+(?:people|professionals)\s+viewed`)
	newMessagesRe   = regexp.MustCompile(`(?i)(\d+)\s+(?:new\s+)?messages?`)
	updateCountRe   = regexp.MustCompile(`(?i)(\d+)\s+(?:updates?|posts?|articles?)`)
	topicBoundaryRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// 消息类型按顺序判断，第一条命中的生效
var messageTypes = []struct {
	kind string
	subs []string
}{
	{"email_confirmation", []string{"confirm your email", "verify"}},
	{"profile_views", []string{"getting noticed", "profile view", "viewed your profile"}},
	{"connection_request", []string{"connection", "invite"}},
	{"direct_message", []string{"message"}},
	{"skill_endorsement", []string{"endorsement"}},
	{"recommendation", []string{"recommendation"}},
	{"work_anniversary", []string{"anniversary"}},
}

var notificationTypes = []struct {
	kind string
	sub  string
}{
	{"profile_views", "profile view"},
	{"connections", "connection"},
	{"messages", "message"},
	{"job_alerts", "job"},
	{"endorsements", "endorsement"},
}

var updateTypes = []struct {
	kind string
	subs []string
}{
	{"news_digest", []string{"wall street journal", "news"}},
	{"network_update", []string{"connection", "network"}},
	{"job_market", []string{"job"}},
	{"trending_content", []string{"trending"}},
	{"periodic_digest", []string{"weekly", "daily"}},
}

var newsSources = []string{"wall street journal", "bloomberg", "reuters", "forbes", "techcrunch", "harvard business review"}

var topics = []string{"ai", "artificial intelligence", "technology", "business", "finance", "career", "leadership", "startup"}

func parseMessage(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.MessageResult{
		Header:      header(types.CategoryMessages, e, m),
		MessageType: "unknown",
	}
	for _, t := range messageTypes {
		if containsAny(m.lower, t.subs...) {
			r.MessageType = t.kind
			break
		}
	}
	switch r.MessageType {
	case "profile_views":
		if sub := viewerCountRe.FindStringSubmatch(m.lower); sub != nil {
			r.Details.ViewerCount = atoi(sub[1])
		}
	case "connection_request":
		if sub := senderNameRe.FindStringSubmatch(m.subject); sub != nil {
			r.Details.SenderName = sub[1]
		}
	}

	urls := extract.URLs(m.markup)
	r.URLs = urls
	r.Details.ProfileLinks = filterURLs(urls, "/in/")
	return r
}

func parseNotification(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.NotificationResult{
		Header:            header(types.CategoryNotifications, e, m),
		NotificationTypes: []string{},
	}
	if sub := unreadRe.FindStringSubmatch(m.lower); sub != nil {
		r.NotificationCount = atoi(sub[1])
	}
	for _, t := range notificationTypes {
		if strings.Contains(m.lower, t.sub) {
			r.NotificationTypes = append(r.NotificationTypes, t.kind)
		}
	}

	urls := extract.URLs(m.markup)
	r.URLs = urls
	r.Details.NotificationLinks = filterURLs(urls, "/notifications")

	if sub := bodyViewsRe.FindStringSubmatch(m.text); sub != nil {
		r.Details.ProfileViews = atoi(sub[1])
	}
	if sub := newMessagesRe.FindStringSubmatch(m.text); sub != nil {
		r.Details.NewMessages = atoi(sub[1])
	}
	return r
}

func parseUpdate(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.UpdateResult{
		Header:         header(types.CategoryUpdates, e, m),
		UpdateType:     "general",
		ContentSources: []string{},
		Topics:         []string{},
		Statistics:     map[string]int{},
	}
	for _, t := range updateTypes {
		if containsAny(m.lower, t.subs...) {
			r.UpdateType = t.kind
			break
		}
	}
	for _, s := range newsSources {
		if strings.Contains(m.lower, s) {
			r.ContentSources = append(r.ContentSources, s)
		}
	}
	words := " " + topicBoundaryRe.ReplaceAllString(m.lower, " ") + " "
	for _, t := range topics {
		if strings.Contains(words, " "+t+" ") {
			r.Topics = append(r.Topics, t)
		}
	}

	urls := extract.URLs(m.markup)
	r.URLs = urls
	r.Statistics["article_count"] = len(filterURLs(urls, "/pulse/", "/posts/"))
	if sub := updateCountRe.FindStringSubmatch(m.text); sub != nil {
		r.Statistics["total_updates"] = atoi(sub[1])
	}
	return r
}

func filterURLs(urls []string, subs ...string) []string {
	out := []string{}
	for _, u := range urls {
		if containsAny(u, subs...) {
			out = append(out, u)
		}
	}
	return out
}
