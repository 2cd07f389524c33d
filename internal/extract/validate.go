package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 不可能是公司名的常见词
var companyStopwords = map[string]bool{
	"new": true, "job": true, "jobs": true, "the": true, "and": true, "for": true,
	"your": true, "you": true, "this": true, "that": true, "with": true, "from": true,
	"apply": true, "now": true, "today": true, "click": true, "view": true, "see": true,
	"more": true, "position": true, "role": true, "team": true, "looking": true,
	"hiring": true, "posted": true, "great": true, "other": true, "linkedin": true,
}

// 链接和操作提示的开头
var instructionalPrefixes = []string{"http", "www", "click", "view", "see", "apply"}

// 职位名里常见的职能关键词，推荐职位必须至少包含一个
var jobKeywords = []string{
	"developer", "engineer", "manager", "analyst", "director", "specialist",
	"consultant", "designer", "programmer", "architect", "intern", "lead",
	"scientist", "administrator", "officer", "coordinator", "technician",
	"devops", "tester", "product", "software", "data", "backend",
	"frontend", "full stack", "fullstack",
	"mühendis", "geliştirici", "uzman", "yönetici", "stajyer", "danışman",
	"yazılım", "analist", "tasarımcı",
}

// 地点校验用的地名和远程办公关键词
var placeKeywords = []string{
	"remote", "hybrid", "on-site", "uzaktan",
	"turkey", "türkiye", "istanbul", "i\u0307stanbul", "ankara", "izmir", "i\u0307zmir",
	"bursa", "antalya", "kocaeli", "eskişehir", "konya", "kayseri",
	"germany", "berlin", "munich", "netherlands", "amsterdam", "united kingdom",
	"london", "ireland", "dublin", "france", "paris", "poland", "warsaw",
	"spain", "madrid", "europe", "emea", "united states", "new york",
	"san francisco", "seattle", "canada", "toronto", "dubai",
	"united arab emirates",
}

var personNameRe = regexp.MustCompile(`^\p{Lu}\p{Ll}+ \p{Lu}\p{Ll}+$`)

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func hasInstructionalPrefix(lower string) bool {
	for _, p := range instructionalPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// ValidCompany 公司名：2 到 50 个字符，不是停用词，不以链接或操作提示开头
func ValidCompany(s string) bool {
	s = strings.TrimSpace(s)
	if n := runeLen(s); n < 2 || n > 50 {
		return false
	}
	lower := strings.ToLower(s)
	return !companyStopwords[lower] && !hasInstructionalPrefix(lower)
}

// ValidPosition 职位名：3 到 50 个字符，不以链接或操作提示开头
func ValidPosition(s string) bool {
	s = strings.TrimSpace(s)
	if n := runeLen(s); n < 3 || n > 50 {
		return false
	}
	return !hasInstructionalPrefix(strings.ToLower(s))
}

// ValidRecommendedPosition 在 ValidPosition 的基础上排除 "First Last" 形式的人名
// （第二个词是职位后缀名词时除外），并要求职能关键词
func ValidRecommendedPosition(s string) bool {
	if !ValidPosition(s) {
		return false
	}
	s = strings.TrimSpace(s)
	if personNameRe.MatchString(s) {
		_, last, _ := strings.Cut(s, " ")
		if !isTitleSuffix(last) {
			return false
		}
	}
	return HasJobKeyword(s)
}

// HasJobKeyword reports whether s names a job function.
func HasJobKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, k := range jobKeywords {
		if containsWord(lower, k) {
			return true
		}
	}
	return false
}

// ValidLocation 必须包含已知地名或 remote
func ValidLocation(s string) bool {
	lower := strings.ToLower(s)
	for _, k := range placeKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// containsWord 判断 k 是否作为词的开头出现在 s 中，避免 "lead" 命中 "pleader"
func containsWord(s, k string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], k)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !isWordByte(s[at-1]) {
			return true
		}
		i = at + len(k)
	}
}

func isWordByte(b byte) bool {
	return b >= 0x80 || b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
