package input

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YKarmar/JobTracker/internal/types"
)

func TestReadCSV(t *testing.T) {
	in := "\ufeffEMAIL_DATE,email_sender, EMAIL_SUBJECT ,EMAIL_BODY,extra\n" +
		"2024-03-04,jobalerts-noreply@linkedin.com,alert,\"<p>line one\nline \"\"two\"\"</p>\",x\n" +
		"2024-03-05,jobs-noreply@linkedin.com,recs,short\n"

	emails, err := ReadCSV(strings.NewReader(in), Columns{})
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, types.Email{
		ID:      "1",
		Sender:  "jobalerts-noreply@linkedin.com",
		Subject: "alert",
		Body:    "<p>line one\nline \"two\"</p>",
		Date:    "2024-03-04",
	}, emails[0])
	assert.Equal(t, "short", emails[1].Body)
}

func TestReadCSVCustomColumns(t *testing.T) {
	in := "from,title,html\nx@linkedin.com,s,b\n"
	emails, err := ReadCSV(strings.NewReader(in), Columns{Sender: "from", Subject: "title", Body: "html"})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Empty(t, emails[0].Date)
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("EMAIL_SENDER,EMAIL_SUBJECT\na,b\n"), Columns{})
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.ErrorContains(t, err, "EMAIL_BODY")

	_, err = ReadCSV(strings.NewReader(""), Columns{})
	assert.Error(t, err)
}

func TestWriteThenRead(t *testing.T) {
	emails := []types.Email{
		{ID: "1", Sender: "a@linkedin.com", Subject: "s, with comma", Body: "<a href=\"x\">y</a>\r\nz", Date: "2024-01-01T00:00:00Z"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Columns{}, emails))

	got, err := ReadCSV(&buf, Columns{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, emails[0].Subject, got[0].Subject)
	assert.Equal(t, emails[0].Sender, got[0].Sender)
}
