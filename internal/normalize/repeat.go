package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CleanupRepetitions 合并编解码往返产生的重复字符：
// 紧邻重复的带音标字符只保留一个，连续 3 个及以上相同的小写 ASCII 字母只保留一个。
func CleanupRepetitions(s string) string {
	s = norm.NFC.String(s)
	return collapseASCIIRuns(collapseDiacriticRepeats(s))
}

func collapseDiacriticRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := utf8.RuneError
	for _, r := range s {
		if r == prev && isDiacritic(r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// 带音标的字母（含土耳其语无点 ı）或独立的组合音标
func isDiacritic(r rune) bool {
	if r < utf8.RuneSelf {
		return false
	}
	if unicode.Is(unicode.Mn, r) || r == 'ı' || r == 'İ' {
		return true
	}
	if !unicode.IsLetter(r) {
		return false
	}
	return utf8.RuneCountInString(norm.NFD.String(string(r))) > 1
}

// collapseASCIIRuns 合并 3 个以上相同的小写字母；后面紧跟 '.' 的（如 www.）保留
func collapseASCIIRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c < 'a' || c > 'z' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == c {
			j++
		}
		if j-i >= 3 && !(j < len(s) && s[j] == '.') {
			b.WriteByte(c)
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return b.String()
}
