package normalize

import (
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
)

var (
	headerLineRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:`)
	mimeHeaderRe = regexp.MustCompile(`(?im)^(?:mime-version|content-transfer-encoding):`)
	ctypeRe      = regexp.MustCompile(`(?im)^content-type:`)
)

// 判断正文是否是完整的 MIME 邮件（带头部）
func looksLikeMIME(body string) bool {
	if !headerLineRe.MatchString(body) {
		return false
	}
	end := strings.Index(body, "\r\n\r\n")
	if end < 0 {
		end = strings.Index(body, "\n\n")
	}
	if end < 0 {
		return false
	}
	head := body[:end]
	return ctypeRe.MatchString(head) && mimeHeaderRe.MatchString(head)
}

// unwrapMIME 解析 MIME 邮件，优先取 text/html，其次 text/plain。
// 第二个返回值表示是否成功解包（此时传输编码和字符集已由 go-message 解码）。
func unwrapMIME(body string) (string, bool) {
	if !looksLikeMIME(body) {
		return body, false
	}

	entity, err := message.Read(strings.NewReader(body))
	if entity == nil || (err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err)) {
		return body, false
	}

	var htmlBody, textBody string
	_ = entity.Walk(func(path []int, part *message.Entity, err error) error {
		if part == nil {
			return nil
		}
		t, _, cerr := part.Header.ContentType()
		if cerr != nil || strings.HasPrefix(t, "multipart/") {
			return nil
		}
		b, rerr := io.ReadAll(part.Body)
		if rerr != nil && len(b) == 0 {
			return nil
		}
		switch {
		case t == "text/html" && htmlBody == "":
			htmlBody = string(b)
		case t == "text/plain" && textBody == "":
			textBody = string(b)
		}
		return nil
	})

	switch {
	case htmlBody != "":
		return htmlBody, true
	case textBody != "":
		return textBody, true
	default:
		return body, false
	}
}
