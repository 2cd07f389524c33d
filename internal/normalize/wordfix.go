package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	wordRe        = regexp.MustCompile(`\p{L}+`)
	hyphenBreakRe = regexp.MustCompile(`^(?:-[ \t]*\r?\n\s*|\s*\x{00AD}\s*)$`)

	upperCaser = cases.Upper(language.Und)
	titleCaser = cases.Title(language.Und)
)

// 传输编码导致断开的单词。键是小写的两段碎片，值是修复后的小写单词。
// 值不能再作为其他键的一段，否则修复结果不稳定。
var repairTable = map[string]string{
	// 重音字符解码失败后被吞掉
	"m hendisi":   "mühendisi",
	"m hendis":    "mühendis",
	"t rkiye":     "türkiye",
	"geli tirici": "geliştirici",
	"g venlik":    "güvenlik",
	"y netici":    "yönetici",
	"ba vuru":     "başvuru",
	"ba vurunuz":  "başvurunuz",
	"dan man":     "danışman",

	// 重音字符被解码成空格
	"yaz ılım":     "yazılım",
	"yazı lım":     "yazılım",
	"mühend isi":   "mühendisi",
	"geli ştirici": "geliştirici",
	"gelişt irici": "geliştirici",
	"türk iye":     "türkiye",
	"teknol oji":   "teknoloji",
	"bilgi sayar":  "bilgisayar",

	// 英文单词在软换行处被截断
	"develop er":    "developer",
	"engin eer":     "engineer",
	"mana ger":      "manager",
	"anal yst":      "analyst",
	"speci alist":   "specialist",
	"consult ant":   "consultant",
	"archit ect":    "architect",
	"program mer":   "programmer",
	"recruit ing":   "recruiting",
	"appli cation":  "application",
	"applica tion":  "application",
	"recom mended":  "recommended",
	"recommen ded":  "recommended",
	"notifi cation": "notification",
	"oppor tunity":  "opportunity",
}

// RepairWordBreaks 修复被传输编码打断的单词
func RepairWordBreaks(s string) string {
	words := wordRe.FindAllStringIndex(s, -1)
	if len(words) < 2 {
		return s
	}

	var b strings.Builder
	last := 0
	for i := 0; i < len(words); i++ {
		if i+1 >= len(words) {
			break
		}
		w, n := words[i], words[i+1]
		a, c := s[w[0]:w[1]], s[n[0]:n[1]]
		gap := s[w[1]:n[0]]

		repl, ok := repairPair(a, c, gap)
		if !ok {
			continue
		}
		b.WriteString(s[last:w[0]])
		b.WriteString(repl)
		last = n[1]
		i++
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// repairPair 决定两段碎片是否合并，返回替换文本
func repairPair(a, c, gap string) (string, bool) {
	if gap == "" {
		return "", false
	}
	breakGap := hyphenBreakRe.MatchString(gap)
	if !breakGap && strings.TrimSpace(gap) != "" {
		return "", false
	}

	if fixed, ok := repairTable[foldKey(a)+" "+foldKey(c)]; ok {
		return applyCase(fixed, a, c), true
	}
	if !breakGap {
		return "", false
	}
	if utf8.RuneCountInString(a) <= 3 || utf8.RuneCountInString(c) <= 3 {
		return a + c, true
	}
	// 软连字符两侧都较长时，当作两个词
	if strings.ContainsRune(gap, '\u00ad') {
		return a + " " + c, true
	}
	return "", false
}

// foldKey 小写并去掉组合点和重复字母，与 CleanupRepetitions 保持一致
func foldKey(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "\u0307", "")
	return collapseASCIIRuns(s)
}

// applyCase 按原碎片的大小写模式输出修复后的单词
func applyCase(fixed, a, c string) string {
	if strings.EqualFold(a+c, fixed) {
		return a + c
	}
	switch {
	case isAllUpper(a) && isAllUpper(c) && utf8.RuneCountInString(a+c) > 1:
		return upperCaser.String(fixed)
	case startsUpper(a):
		return titleCaser.String(fixed)
	default:
		return fixed
	}
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
