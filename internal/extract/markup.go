package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/YKarmar/JobTracker/internal/normalize"
)

// 带这些属性之一且值含 "logo" 的图片被认为是公司 logo
var logoAttrs = []string{"class", "id", "data-test-id", "data-testid", "src"}

// LogoAltMatcher returns the alt text of company-logo images in markup order.
// An alt of the form "JotForm logo" yields "JotForm".
func LogoAltMatcher() Matcher {
	return MatcherFunc(func(src Source) []string {
		if !strings.Contains(src.Markup, "<img") {
			return nil
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(src.Markup))
		if err != nil {
			return nil
		}
		var out []string
		doc.Find("img[alt]").Each(func(_ int, img *goquery.Selection) {
			alt := strings.TrimSpace(img.AttrOr("alt", ""))
			lower := strings.ToLower(alt)
			tagged := strings.HasSuffix(lower, " logo")
			for _, a := range logoAttrs {
				if strings.Contains(strings.ToLower(img.AttrOr(a, "")), "logo") {
					tagged = true
					break
				}
			}
			if !tagged || alt == "" {
				return
			}
			if strings.HasSuffix(lower, " logo") {
				alt = strings.TrimSpace(alt[:len(alt)-len(" logo")])
			}
			out = append(out, alt)
		})
		return out
	})
}

type anchor struct {
	id   string
	text string
}

// jobAnchors 标记中指向职位的链接及其文字，按出现顺序，文字为空的跳过
func jobAnchors(markup string) []anchor {
	if !strings.Contains(markup, "<a") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	var out []anchor
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		m := jobIDRe.FindStringSubmatch(a.AttrOr("href", ""))
		if m == nil {
			return
		}
		if text := normalize.PlainText(a.Text()); text != "" {
			out = append(out, anchor{id: m[1], text: text})
		}
	})
	return out
}

// JobLinkTextMatcher 职位链接的文字，只保留带职能关键词的
func JobLinkTextMatcher() Matcher {
	return MatcherFunc(func(src Source) []string {
		var out []string
		for _, a := range jobAnchors(src.Markup) {
			if HasJobKeyword(a.text) {
				out = append(out, a.text)
			}
		}
		return out
	})
}

// JobTitles returns, per job id, the text of the links pointing at that job.
// A text naming a job function is preferred over other link texts; link
// texts that fail ValidPosition are ignored.
func JobTitles(markup string) map[string]string {
	out := map[string]string{}
	for _, a := range jobAnchors(markup) {
		if !ValidPosition(a.text) {
			continue
		}
		prev, ok := out[a.id]
		if !ok || !HasJobKeyword(prev) && HasJobKeyword(a.text) {
			out[a.id] = a.text
		}
	}
	return out
}
