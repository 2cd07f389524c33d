package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YKarmar/JobTracker/internal/batch"
	"github.com/YKarmar/JobTracker/internal/mailbox"
	"github.com/YKarmar/JobTracker/internal/server"
	"github.com/YKarmar/JobTracker/internal/types"
)

type stubMailbox struct{ emails []types.Email }

func (s stubMailbox) Fetch(context.Context, mailbox.Query) ([]types.Email, error) {
	return s.emails, nil
}

func newClient(t *testing.T, opts server.Options) *Client {
	t.Helper()
	ts := httptest.NewServer(server.New(opts).Handler())
	t.Cleanup(ts.Close)
	return New(Config{Endpoint: ts.URL + "/rpc", APIKey: opts.APIKey})
}

func TestParseRoundTrip(t *testing.T) {
	c := newClient(t, server.Options{APIKey: "secret"})

	r, err := c.Parse(context.Background(), types.Email{
		Sender:  "applications-noreply@linkedin.com",
		Subject: "Your application was sent to Trendyol",
		Body:    `<a href="https://www.linkedin.com/jobs/view/1111111111/">Backend Engineer</a>`,
	})
	require.NoError(t, err)

	app, ok := r.(*types.ApplicationStatusResult)
	require.True(t, ok)
	require.Len(t, app.AppliedJobs, 1)
	assert.Equal(t, "1111111111", app.AppliedJobs[0].JobID)
	assert.Equal(t, "Trendyol", app.AppliedJobs[0].Company)
}

func TestParseBatch(t *testing.T) {
	c := newClient(t, server.Options{Batch: batch.Options{MaxBodyBytes: 50}})

	runID, items, err := c.ParseBatch(context.Background(), []types.Email{
		{Sender: "messages-noreply@linkedin.com", Subject: "Confirm your email address"},
		{Sender: "messages-noreply@linkedin.com", Body: strings.Repeat("y", 51)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	require.Len(t, items, 2)

	require.NoError(t, items[0].Err)
	msg, ok := items[0].Result.(*types.MessageResult)
	require.True(t, ok)
	assert.Equal(t, "email_confirmation", msg.MessageType)

	assert.ErrorContains(t, items[1].Err, "too large")
	assert.Nil(t, items[1].Result)
}

func TestClassifyAndFetch(t *testing.T) {
	want := []types.Email{{ID: "9", Sender: "jobalerts-noreply@linkedin.com", Subject: "alert"}}
	c := newClient(t, server.Options{Mailbox: stubMailbox{emails: want}})

	cat, err := c.Classify(context.Background(), "updates-noreply@linkedin.com")
	require.NoError(t, err)
	assert.Equal(t, types.CategoryUpdates, cat)

	got, err := c.Fetch(context.Background(), mailbox.Query{Since: time.Now().AddDate(0, 0, -1), MaxEmails: 3})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRPCErrorIsReturned(t *testing.T) {
	c := newClient(t, server.Options{})
	_, err := c.Fetch(context.Background(), mailbox.Query{})

	var rpcErr *server.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, server.CodeServerError, rpcErr.Code)
}

func TestHTTPErrorIsReturned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(Config{Endpoint: ts.URL}).Classify(context.Background(), "x")
	assert.ErrorContains(t, err, "502")
	assert.ErrorContains(t, err, "nope")
}

func TestUnauthorized(t *testing.T) {
	ts := httptest.NewServer(server.New(server.Options{APIKey: "k"}).Handler())
	defer ts.Close()

	_, err := New(Config{Endpoint: ts.URL + "/rpc"}).Classify(context.Background(), "x")
	assert.ErrorContains(t, err, "401")
}
