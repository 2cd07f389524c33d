package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DigestSeparator 摘要行中职位部分和地点之间的分隔符
const DigestSeparator = " · "

// SplitDigestLine splits a digest line "Position Company · Location".
//
// The company is the first tail of the job part whose first rune is upper
// case, scanning from just after the last title-suffix noun. When no tail
// qualifies the last token is the company. Multi-word company names that
// follow a lower-case word are mis-split; that is a known limitation of the
// layout heuristic.
func SplitDigestLine(line string) (position, company, location string) {
	line = strings.TrimSpace(line)
	jobPart, location, ok := strings.Cut(line, DigestSeparator)
	if !ok {
		return line, "", ""
	}
	location = strings.TrimSpace(location)
	words := strings.Fields(jobPart)
	switch len(words) {
	case 0:
		return "", "", location
	case 1:
		return "", words[0], location
	}

	start := 1
	for i := len(words) - 2; i >= 0; i-- {
		if isTitleSuffix(words[i]) {
			start = i + 1
			break
		}
	}
	for i := start; i < len(words); i++ {
		r, _ := utf8.DecodeRuneInString(words[i])
		if unicode.IsUpper(r) {
			return strings.Join(words[:i], " "), strings.Join(words[i:], " "), location
		}
	}
	last := len(words) - 1
	return strings.Join(words[:last], " "), words[last], location
}

func isTitleSuffix(w string) bool {
	w = strings.TrimRight(w, ",;:")
	for _, s := range titleSuffixes {
		if strings.EqualFold(w, s) || strings.EqualFold(w, s+"s") {
			return true
		}
	}
	return false
}

// TitleTail drops leading header words from a digest position: it keeps the
// capitalised run that ends in the last title-suffix noun, plus anything
// after it. Positions where that run is a single word are returned as is.
func TitleTail(position string) string {
	words := strings.Fields(position)
	k := -1
	for i := len(words) - 1; i > 0; i-- {
		if isTitleSuffix(words[i]) {
			k = i
			break
		}
	}
	if k < 0 {
		return position
	}
	j := k
	for j > 0 && capitalised(words[j-1]) {
		j--
	}
	if j == k || j == 0 {
		return position
	}
	return strings.Join(words[j:], " ")
}

// capitalised 首个字母大写，或者是 "-"、"/" 这类不含字母和数字的连接符
func capitalised(w string) bool {
	for _, r := range w {
		switch {
		case unicode.IsLetter(r):
			return unicode.IsUpper(r)
		case unicode.IsDigit(r):
			return false
		}
	}
	return true
}
