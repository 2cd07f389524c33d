package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "digest line from html",
			body: `<p>PHP Developer</p><span>JotForm &middot; Ankara, Turkey</span>`,
			want: "PHP Developer JotForm · Ankara, Turkey",
		},
		{
			name: "quoted printable turkish",
			body: "<td>Yaz=C4=B1l=C4=B1m M=C3=BChendisi=\r\n</td>",
			want: "Yazılım Mühendisi",
		},
		{
			name: "numeric entities",
			body: "Caf&#233; &amp; Bar&#x21;",
			want: "Café & Bar!",
		},
		{
			name: "style and comments dropped",
			body: "<style>p { color: red; }</style><!-- hidden --><p>Apply now</p>",
			want: "Apply now",
		},
		{
			name: "percent encoded utf8 outside url",
			body: "M%C3%BChendis",
			want: "Mühendis",
		},
		{
			name: "entity encoded tag is stripped",
			body: "&lt;b&gt;Bold&lt;/b&gt; text",
			want: "Bold text",
		},
		{
			name: "zero width preheader",
			body: "Top\u200b job\u034f picks",
			want: "Top job picks",
		},
		{
			name: "non breaking spaces collapse",
			body: "a&nbsp;&nbsp; b \n\t c",
			want: "a b c",
		},
		{
			name: "empty",
			body: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.body))
		})
	}
}

func TestTextIsIdempotent(t *testing.T) {
	inputs := []string{
		"PHP Developer JotForm · Ankara, Turkey Actively recruiting Easy Apply",
		"<p>Yaz ılım Mühend isi</p> Greaaaat T rkiye",
		"Learning\u00adPlatform Ap\u00adply",
		"Engineer III at www.example.com &amp; more",
		"Müüüller mmm hendisi",
		"Yazılım mu\u0308hend isi",
		"Yazılım müühend isi",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), in)
	}
}

// 组合音标和重复音标在断词修复之前就要合并
func TestTextRepairsAfterComposing(t *testing.T) {
	assert.Equal(t, "Yazılım mühendisi", Text("Yazılım mu\u0308hend isi"))
	assert.Equal(t, "Yazılım mühendisi", Text("Yazılım müühend isi"))
}

func TestDecodeTransport(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"utf8 pairs", "Yaz=C4=B1l=C4=B1m M=C3=BChendisi=\r\n", "Yazılım Mühendisi"},
		{"soft line break", "Soft=\r\nware Engineer", "Software Engineer"},
		{"latin5 single bytes", "G=FCvenlik=20Uzman=FDs=FD", "Güvenlik Uzmanısı"},
		{"charmap fallback", "Caf=E9=20Noir", "Café Noir"},
		{"undecodable byte stripped", "A=81B=20C", "AB C"},
		{"url left alone outside qp", "https://x.com/?refId=AB12", "https://x.com/?refId=AB12"},
		{"latin5 byte in url outside qp", "?trackingId=def&refId=DE1", "?trackingId=def&refId=DE1"},
		{"equals escape", "href=3D\"https://a.b\"", "href=\"https://a.b\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeTransport(tt.in))
		})
	}
}

func TestMarkupUnwrapsMIME(t *testing.T) {
	raw := strings.Join([]string{
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain version",
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"<p>Yaz=C4=B1l=C4=B1m M=C3=BChendisi</p>",
		"--b1--",
		"",
	}, "\r\n")

	assert.Contains(t, Markup(raw), "<p>Yazılım Mühendisi</p>")
	assert.Equal(t, "Yazılım Mühendisi", Text(raw))
}

func TestMarkupPlainBodyUntouched(t *testing.T) {
	body := `<a href="https://www.linkedin.com/jobs/view/123">Job</a>`
	assert.Equal(t, body, Markup(body))
}

func TestRepairWordBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"table pair keeps case", "Yaz ılım Mühend isi", "Yazılım Mühendisi"},
		{"lost accent title case", "Ankara, T rkiye", "Ankara, Türkiye"},
		{"lost accent all caps", "T RKIYE", "TÜRKIYE"},
		{"hyphen break short fragment", "Devel-\nop team", "Develop team"},
		{"hyphen break long fragments", "Micro-\nLearning", "Micro-\nLearning"},
		{"soft hyphen short", "Ap\u00adply", "Apply"},
		{"soft hyphen long", "Learning\u00adPlatform", "Learning Platform"},
		{"ordinary words untouched", "PHP Developer at JotForm", "PHP Developer at JotForm"},
		{"spaced dash untouched", "Roblox/LUA - Senior", "Roblox/LUA - Senior"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairWordBreaks(tt.in))
		})
	}
}

// 修复结果不能再次成为某个键的碎片
func TestRepairTableValuesAreNotFragments(t *testing.T) {
	fragments := map[string]bool{}
	for k := range repairTable {
		parts := strings.SplitN(k, " ", 2)
		fragments[parts[0]] = true
		fragments[parts[1]] = true
	}
	for k, v := range repairTable {
		assert.False(t, fragments[v], "value %q of %q is also a fragment", v, k)
	}
}

func TestCleanupRepetitions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Müüüller", "Müller"},
		{"Greaaaat", "Great"},
		{"Engineer III", "Engineer III"},
		{"www.linkedin.com", "www.linkedin.com"},
		{"Apply", "Apply"},
		{"ııı", "ı"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanupRepetitions(tt.in))
		})
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Yazılım işi", Subject("=?UTF-8?Q?Yaz=C4=B1l=C4=B1m_i=C5=9Fi?="))
	assert.Equal(t, "Hi there", Subject("<b>Hi</b>   there "))
	assert.Equal(t, "Your job alert for backend engineer has been created",
		Subject("Your job alert for backend engineer has been created"))
}
