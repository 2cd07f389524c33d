// Package input reads and writes mail exports in CSV form.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/YKarmar/JobTracker/internal/types"
)

// Columns 输入 CSV 的列名
type Columns struct {
	Sender  string `yaml:"sender"`
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
	Date    string `yaml:"date"`
}

func DefaultColumns() Columns {
	return Columns{
		Sender:  "EMAIL_SENDER",
		Subject: "EMAIL_SUBJECT",
		Body:    "EMAIL_BODY",
		Date:    "EMAIL_DATE",
	}
}

// WithDefaults 空列名用默认值补全
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.Sender == "" {
		c.Sender = d.Sender
	}
	if c.Subject == "" {
		c.Subject = d.Subject
	}
	if c.Body == "" {
		c.Body = d.Body
	}
	if c.Date == "" {
		c.Date = d.Date
	}
	return c
}

var ErrMissingColumn = errors.New("required column missing")

// ReadCSV 读取邮件导出。发件人、主题、正文三列必须存在，日期列可选。
// 列名匹配忽略大小写和首尾空白
func ReadCSV(r io.Reader, cols Columns) ([]types.Email, error) {
	cols = cols.WithDefaults()
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	find := func(name string) int {
		if i, ok := index[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	sender, subject, body, date := find(cols.Sender), find(cols.Subject), find(cols.Body), find(cols.Date)
	for name, i := range map[string]int{cols.Sender: sender, cols.Subject: subject, cols.Body: body} {
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	field := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var emails []types.Email
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		emails = append(emails, types.Email{
			ID:      fmt.Sprint(line - 1),
			Sender:  field(rec, sender),
			Subject: field(rec, subject),
			Body:    field(rec, body),
			Date:    field(rec, date),
		})
	}
	return emails, nil
}

// WriteCSV 按同样的列写出，fetch 的结果可以直接作为 parse 的输入
func WriteCSV(w io.Writer, cols Columns, emails []types.Email) error {
	cols = cols.WithDefaults()
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{cols.Sender, cols.Subject, cols.Body, cols.Date}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range emails {
		if err := writer.Write([]string{e.Sender, e.Subject, e.Body, e.Date}); err != nil {
			return fmt.Errorf("write email %s: %w", e.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
