package normalize

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	softBreakRe = regexp.MustCompile(`=\r?\n`)
	hexRunRe    = regexp.MustCompile(`(?:=[0-9A-Fa-f]{2})+`)
	pctRunRe    = regexp.MustCompile(`(?:%[0-9A-Fa-f]{2}){2,}`)

	// 有这些特征才按 quoted-printable 处理，否则 URL 里的 "=AB" 会被误解码
	qpMarkerRe = regexp.MustCompile(`=\r?\n|=3D|=20|=[C-F][0-9A-F]=[89AB][0-9A-F]`)
)

// 常见重音字符的十六进制编码对照表，键为大写十六进制
var accentTable = map[string]string{
	// UTF-8 双字节
	"C3BC": "ü", "C39C": "Ü", "C3B6": "ö", "C396": "Ö",
	"C3A7": "ç", "C387": "Ç", "C4B1": "ı", "C4B0": "İ",
	"C59F": "ş", "C59E": "Ş", "C49F": "ğ", "C49E": "Ğ",
	"C3A9": "é", "C3A8": "è", "C3A1": "á", "C3A0": "à",
	"C3A2": "â", "C3AE": "î", "C3BB": "û", "C3B1": "ñ",
	"C2B7": "·", "C2A0": " ",
	// ISO-8859-9 单字节
	"FC": "ü", "DC": "Ü", "F6": "ö", "D6": "Ö",
	"E7": "ç", "C7": "Ç", "FD": "ı", "DD": "İ",
	"FE": "ş", "DE": "Ş", "F0": "ğ", "D0": "Ğ",
	"B7": "·", "A0": " ",
}

// 允许在 quoted-printable 中直接解码的 ASCII 字节
func printableASCII(b byte) bool {
	return b == '\t' || b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7f)
}

// DecodeTransport 解码 quoted-printable 残留。
// 正文看起来像 QP 时，单字节按对照表或 ISO-8859-9 解码，仍失败的直接丢弃；
// 否则只解码能确定的多字节序列，其余保持原样。
func DecodeTransport(s string) string {
	qp := qpMarkerRe.MatchString(s)
	s = softBreakRe.ReplaceAllString(s, "")
	if qp {
		s = strings.TrimSuffix(strings.TrimRight(s, " \t\r\n"), "=")
	}
	return hexRunRe.ReplaceAllStringFunc(s, func(run string) string {
		raw, err := hex.DecodeString(strings.ReplaceAll(run, "=", ""))
		if err != nil {
			return run
		}
		out, ok := decodeBytes(raw, qp)
		if !ok {
			return run
		}
		return out
	})
}

// decodePercentRuns 只解码能组成合法 UTF-8 的非 ASCII 百分号序列，如 %C3%BC
func decodePercentRuns(s string) string {
	return pctRunRe.ReplaceAllStringFunc(s, func(run string) string {
		raw, err := hex.DecodeString(strings.ReplaceAll(run, "%", ""))
		if err != nil || !utf8.Valid(raw) {
			return run
		}
		for _, b := range raw {
			if b < 0x80 {
				return run
			}
		}
		return string(raw)
	})
}

func decodeBytes(raw []byte, lenient bool) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(raw); {
		// 先查双字节，再查单字节
		if i+1 < len(raw) {
			if v, ok := accentTable[strings.ToUpper(hex.EncodeToString(raw[i:i+2]))]; ok {
				b.WriteString(v)
				i += 2
				continue
			}
		}
		if raw[i] >= 0x80 {
			if r, size := utf8.DecodeRune(raw[i:]); r != utf8.RuneError && size > 1 {
				b.Write(raw[i : i+size])
				i += size
				continue
			}
		}
		// 单字节只在 QP 正文中解码，URL 参数里的 "=DE" 之类要保持原样
		if !lenient {
			return "", false
		}
		if v, ok := accentTable[strings.ToUpper(hex.EncodeToString(raw[i:i+1]))]; ok {
			b.WriteString(v)
			i++
			continue
		}
		if raw[i] < 0x80 {
			if printableASCII(raw[i]) {
				b.WriteByte(raw[i])
			}
			i++
			continue
		}
		if r := charmap.ISO8859_9.DecodeByte(raw[i]); r >= 0xA0 {
			b.WriteRune(r)
		}
		i++
	}
	return b.String(), true
}
