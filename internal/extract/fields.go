package extract

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/YKarmar/JobTracker/internal/normalize"
	"github.com/YKarmar/JobTracker/internal/types"
)

// JobViewBase 规范化职位链接的前缀
const JobViewBase = "https://www.linkedin.com/jobs/view/"

var (
	jobIDRe       = regexp.MustCompile(`(?i)jobs(?:/|%2F)view(?:/|%2F)(\d+)`)
	jobSlugIDRe   = regexp.MustCompile(`(?i)jobs(?:/|%2F)view(?:/|%2F)[a-z0-9\-]*?-(\d{6,})\b`)
	jobViewURLRe  = regexp.MustCompile(`(?i)https?://[^\s<>"']*?linkedin\.com[^\s<>"']*?jobs(?:/|%2F)view(?:/|%2F)[^\s<>"']+`)
	platformURLRe = regexp.MustCompile(`https?://[^\s<>"']+?linkedin\.com[^\s<>"']*`)

	trackingIDRe = regexp.MustCompile(`[?&;]trackingId=([^&"'\s<>]+)`)
	refIDRe      = regexp.MustCompile(`[?&;]refId=([^&"'\s<>]+)`)

	appliedOnRe  = regexp.MustCompile(`(?i)\bapplied on (\p{L}+ \d{1,2},? \d{4}|\d{1,2} \p{L}+ \d{4}|\d{4}-\d{2}-\d{2})`)
	appliedAgoRe = regexp.MustCompile(`(?i)\bapplied (\d+ (?:minute|hour|day|week|month)s? ago)`)
)

// 职位名后缀名词，英文在前，土耳其语在后
var titleSuffixes = []string{
	"Developer", "Engineer", "Manager", "Analyst", "Director", "Specialist",
	"Consultant", "Designer", "Programmer", "Architect",
	"Mühendisi", "Geliştirici", "Geliştiricisi", "Uzmanı", "Yöneticisi", "Danışmanı",
}

var (
	positionSuffixRe = regexp.MustCompile(`(?i)([\p{L}\p{N} /\-+#&]+?\b(?:` + strings.Join(titleSuffixes[:10], "|") + `)s?)\b`)
	beforeCompanyRe  = regexp.MustCompile(`([\p{L}\p{N} /\-+#&]+?)\s+[\p{L}\p{N}][\p{L}\p{N}&.'\-]*\s*·\s*\p{L}`)

	fillerRe       = regexp.MustCompile(`(?i)^.*?\b(?:you|for(?: the)?)\s+`)
	trailingRoleRe = regexp.MustCompile(`(?i)\s+(?:position|role)$`)

	companyBeforeDotRe = regexp.MustCompile(`(?:^|\s)(\p{Lu}[\p{L}\p{N}&.'\-]*)\s*·\s*\p{L}[\p{L}\s,]*`)
	companyVerbTagRe   = regexp.MustCompile(`\b(?:sent to|viewed by|submitted to)\s+([^<>]+?)\s*<`)
	companyAfterVerbRe = regexp.MustCompile(`\b(?:sent to|viewed by|submitted to|applied to|at)\s+(\p{Lu}[\p{L}\p{N}&.'\-]*(?:\s+\p{Lu}[\p{L}\p{N}&.'\-]*){0,3})`)

	locationMarkupRe = regexp.MustCompile(`(?:·|&middot;|&#183;|&#xB7;)\s*([^<·|]+?)\s*<`)
	locationRe       = regexp.MustCompile(`·\s*([^·|]+?)(?:\s+(?:Actively recruiting|Easy Apply|Apply now|Promoted|Be an early applicant|Viewed|\d+ (?:applicants?|connections?|alumni|school alumni|company alumni))\b|\s*[·|]|\s*$)`)
)

// CompanyCascade 从最具体到最宽泛
var CompanyCascade = Cascade{
	{Name: "logo_alt", Match: LogoAltMatcher(), Valid: ValidCompany},
	{Name: "after_verb_markup", Match: MarkupRegexMatcher(companyVerbTagRe, 1), Clean: normalize.PlainText, Valid: ValidCompany},
	{Name: "after_verb", Match: RegexMatcher(companyAfterVerbRe, 1), Valid: ValidCompany},
	{Name: "before_dot", Match: RegexMatcher(companyBeforeDotRe, 1), Valid: ValidCompany},
}

// PositionCascade 先取职位链接的文字，再按职位后缀名词匹配，最后取 "<公司> · <地点>" 之前的文本
var PositionCascade = Cascade{
	{Name: "link_text", Match: JobLinkTextMatcher(), Clean: CleanPosition, Valid: ValidPosition},
	{Name: "title_suffix", Match: RegexMatcher(positionSuffixRe, 1), Clean: CleanPosition, Valid: ValidPosition},
	{Name: "before_company", Match: RegexMatcher(beforeCompanyRe, 1), Clean: CleanPosition, Valid: func(s string) bool {
		return ValidPosition(s) && runeLen(s) > 3
	}},
}

// RecommendedPositionCascade 推荐职位额外排除人名
var RecommendedPositionCascade = withValidator(PositionCascade, ValidRecommendedPosition)

// LocationCascade 标记中地点到下一个标签为止，纯文本中到已知的边界词为止
var LocationCascade = Cascade{
	{Name: "after_dot_markup", Match: MarkupRegexMatcher(locationMarkupRe, 1), Clean: normalize.PlainText, Valid: ValidLocation},
	{Name: "after_dot", Match: RegexMatcher(locationRe, 1), Valid: ValidLocation},
}

var JobIDCascade = Cascade{
	{Name: "markup", Match: MarkupRegexMatcher(jobIDRe, 1)},
	{Name: "text", Match: RegexMatcher(jobIDRe, 1)},
	{Name: "slug", Match: MarkupRegexMatcher(jobSlugIDRe, 1)},
}

var JobURLCascade = Cascade{
	{Name: "canonical", Match: MatcherFunc(func(src Source) []string {
		if id, ok := JobID(src); ok {
			return []string{CanonicalJobURL(id)}
		}
		return nil
	})},
	{Name: "verbatim", Match: MarkupRegexMatcher(jobViewURLRe, 0), Clean: html.UnescapeString},
}

var TrackingIDCascade = Cascade{
	{Name: "query", Match: MarkupRegexMatcher(trackingIDRe, 1), Clean: unescapeQuery},
}

var RefIDCascade = Cascade{
	{Name: "query", Match: MarkupRegexMatcher(refIDRe, 1), Clean: unescapeQuery},
}

var AppliedAtCascade = Cascade{
	{Name: "applied_on", Match: RegexMatcher(appliedOnRe, 1)},
	{Name: "applied_ago", Match: RegexMatcher(appliedAgoRe, 1)},
}

// StatusCascade 按优先级排列：拒绝和 offer 比"已申请"更能说明进展
var StatusCascade = Cascade{
	{Name: "rejected", Match: RegexMatcher(regexp.MustCompile(`(?i)not (?:to )?mov(?:e|ing) forward|unfortunately|decided to (?:pursue|move forward with) other|no longer (?:being )?considered`), 0), Clean: always(string(types.StatusRejected))},
	{Name: "offer", Match: RegexMatcher(regexp.MustCompile(`(?i)\boffer (?:letter|of employment)|pleased to offer`), 0), Clean: always(string(types.StatusOffer))},
	{Name: "interview", Match: RegexMatcher(regexp.MustCompile(`(?i)\binterview`), 0), Clean: always(string(types.StatusInterview))},
	{Name: "assessment", Match: RegexMatcher(regexp.MustCompile(`(?i)\b(?:online )?assessment\b|coding challenge`), 0), Clean: always(string(types.StatusOA))},
	{Name: "withdrawn", Match: RegexMatcher(regexp.MustCompile(`(?i)\bwithdr(?:ew|awn)\b`), 0), Clean: always(string(types.StatusWithdrawn))},
	{Name: "viewed", Match: RegexMatcher(regexp.MustCompile(`(?i)application was viewed|viewed your application`), 0), Clean: always(string(types.StatusViewed))},
	{Name: "applied", Match: RegexMatcher(regexp.MustCompile(`(?i)\bapplied\b|application was sent|application (?:has been )?submitted`), 0), Clean: always(string(types.StatusApplied))},
}

func withValidator(c Cascade, v Validator) Cascade {
	out := make(Cascade, len(c))
	copy(out, c)
	for i := range out {
		prev := out[i].Valid
		out[i].Valid = func(s string) bool {
			return (prev == nil || prev(s)) && v(s)
		}
	}
	return out
}

// CleanPosition 去掉前导的 "... for the" / "... you" 以及结尾的 position/role
func CleanPosition(s string) string {
	s = strings.TrimSpace(s)
	for {
		next := strings.TrimSpace(fillerRe.ReplaceAllString(s, ""))
		if next == s || next == "" {
			break
		}
		s = next
	}
	s = trailingRoleRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func unescapeQuery(s string) string {
	s = html.UnescapeString(s)
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// CanonicalJobURL 根据 job_id 生成规范链接
func CanonicalJobURL(id string) string {
	return JobViewBase + id
}

func JobID(src Source) (string, bool) { return JobIDCascade.Extract(src) }

func JobURL(src Source) (string, bool) { return JobURLCascade.Extract(src) }

func Company(src Source) (string, bool) { return CompanyCascade.Extract(src) }

func Position(src Source) (string, bool) { return PositionCascade.Extract(src) }

func Location(src Source) (string, bool) { return LocationCascade.Extract(src) }

func AppliedAt(src Source) (string, bool) { return AppliedAtCascade.Extract(src) }

func TrackingID(src Source) (string, bool) { return TrackingIDCascade.Extract(src) }

func RefID(src Source) (string, bool) { return RefIDCascade.Extract(src) }

// RecommendedPosition 推荐职位子流程使用的职位提取
func RecommendedPosition(src Source) (string, bool) {
	return RecommendedPositionCascade.Extract(src)
}

// Status 返回 section 描述的申请状态，没有线索时返回空
func Status(src Source) types.Status {
	if v, ok := StatusCascade.Extract(src); ok {
		return types.Status(v)
	}
	return ""
}

// Link 一个职位链接
type Link struct {
	ID  string
	URL string
}

// JobLinks returns the job links in s in order of first appearance, one per
// job id. URL is the first absolute link seen for that id; relative links
// fall back to the canonical URL.
func JobLinks(s string) []Link {
	var out []Link
	index := map[string]int{}
	for _, m := range jobIDRe.FindAllStringSubmatchIndex(s, -1) {
		id := s[m[2]:m[3]]
		abs := enclosingURL(s, m[0], m[1])
		i, ok := index[id]
		switch {
		case !ok:
			u := abs
			if u == "" {
				u = CanonicalJobURL(id)
			}
			index[id] = len(out)
			out = append(out, Link{ID: id, URL: u})
		case abs != "" && out[i].URL == CanonicalJobURL(id) && abs != out[i].URL:
			out[i].URL = abs
		}
	}
	return out
}

// JobBlocks returns, per job id, the markup that follows the first link to
// that job up to the first link to a different job. The block usually
// holds the link text and the "Company · Location" line under it.
func JobBlocks(markup string) map[string]Source {
	out := map[string]Source{}
	locs := jobIDRe.FindAllStringSubmatchIndex(markup, -1)
	for i, m := range locs {
		id := markup[m[2]:m[3]]
		if _, ok := out[id]; ok {
			continue
		}
		end := len(markup)
		for _, next := range locs[i+1:] {
			if markup[next[2]:next[3]] != id {
				end = next[0]
				break
			}
		}
		out[id] = NewSource(markup[m[1]:end])
	}
	return out
}

// enclosingURL 返回包含 [start,end) 的绝对平台链接，没有则返回空
func enclosingURL(s string, start, end int) string {
	for start > 0 && !isURLDelim(s[start-1]) {
		start--
	}
	for end < len(s) && !isURLDelim(s[end]) {
		end++
	}
	tok := s[start:end]
	i := strings.Index(strings.ToLower(tok), "http")
	if i < 0 {
		return ""
	}
	tok = tok[i:]
	if !strings.Contains(strings.ToLower(tok), "linkedin.com") {
		return ""
	}
	return html.UnescapeString(tok)
}

func isURLDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '<', '>', '"', '\'', '(', ')':
		return true
	}
	return false
}

// JobIDs 按出现顺序去重后的 job id
func JobIDs(markup string) []string {
	links := JobLinks(markup)
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}

// URLs 标记中所有指向平台的链接，按出现顺序
func URLs(markup string) []string {
	raw := platformURLRe.FindAllString(markup, -1)
	out := make([]string, 0, len(raw))
	for _, u := range raw {
		out = append(out, html.UnescapeString(u))
	}
	return out
}
