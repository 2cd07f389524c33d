// Package normalize turns raw LinkedIn mail bodies into clean plain text.
//
// The stages run in a fixed order and each one assumes the previous ones
// already ran: MIME unwrap, transport decoding, HTML entities, tag
// stripping, repetition cleanup, word-break repair (cleaned up again),
// whitespace collapse.
// Nothing here returns an error; a token that cannot be decoded is left as
// it was.
package normalize

import (
	"html"
	"mime"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"
)

var (
	dropBlockRe = regexp.MustCompile(`(?is)<(style|script|head)\b[^>]*>.*?</(?:style|script|head)\s*>|<!--.*?-->`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)

	// LinkedIn 预览文本里塞满的零宽字符
	invisibleReplacer = strings.NewReplacer(
		"\u200b", "", "\u200c", "", "\u200d", "",
		"\u2060", "", "\ufeff", "", "\u034f", "",
	)
)

// Text 返回正文的纯文本形式
func Text(body string) string {
	return PlainText(Markup(body))
}

// PlainText 对已经解码过的标记执行剩余的阶段：实体、标签、断词修复、重复字符、空白
func PlainText(markup string) string {
	s := decodePercentRuns(markup)
	s = html.UnescapeString(s)
	s = StripTags(s)
	// 修复前先合成 NFC 并去重，修复表只认干净的碎片
	s = CleanupRepetitions(s)
	s = RepairWordBreaks(s)
	s = CleanupRepetitions(s)
	return CollapseWhitespace(s)
}

// Markup 只做 MIME 解包和传输编码解码，保留 HTML 结构，供链接和属性提取使用
func Markup(body string) string {
	s, decoded := unwrapMIME(body)
	if decoded {
		return s
	}
	return DecodeTransport(s)
}

// StripTags 去掉标签，每个标签替换成一个空格
func StripTags(s string) string {
	s = dropBlockRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	return invisibleReplacer.Replace(s)
}

// CollapseWhitespace 合并空白并去掉首尾空白
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}

// Subject 解码 RFC 2047 编码的主题并清理
func Subject(s string) string {
	if decoded, err := wordDecoder.DecodeHeader(s); err == nil {
		s = decoded
	}
	s = tagRe.ReplaceAllString(s, "")
	return CollapseWhitespace(s)
}
