package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YKarmar/JobTracker/internal/types"
)

func emails(n int) []types.Email {
	out := make([]types.Email, n)
	for i := range out {
		out[i] = types.Email{
			Sender:  "jobalerts-noreply@linkedin.com",
			Subject: fmt.Sprintf("alert %d", i),
			Body:    fmt.Sprintf(`<a href="https://www.linkedin.com/jobs/view/%d">Backend Engineer</a>`, 1000+i),
		}
	}
	return out
}

func TestRunKeepsInputOrder(t *testing.T) {
	in := emails(20)
	report, err := Run(context.Background(), in, Options{Workers: 5})
	require.NoError(t, err)

	require.Len(t, report.Items, 20)
	for i, it := range report.Items {
		assert.Equal(t, i, it.Index)
		require.NoError(t, it.Err)
		assert.Equal(t, in[i].Subject, it.Result.Meta().Subject)
	}
	assert.Equal(t, 20, report.Categories[types.CategoryJobAlerts])
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Results(), 20)
}

func TestRunSkipsOversizedBody(t *testing.T) {
	in := emails(3)
	in[1].Body = strings.Repeat("x", 101)

	report, err := Run(context.Background(), in, Options{MaxBodyBytes: 100})
	require.NoError(t, err)

	require.Len(t, report.Items, 3)
	assert.ErrorIs(t, report.Items[1].Err, ErrBodyTooLarge)
	assert.Nil(t, report.Items[1].Result)
	assert.NoError(t, report.Items[0].Err)
	assert.NoError(t, report.Items[2].Err)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Results(), 2)
}

func TestRunPlatformOnly(t *testing.T) {
	in := emails(2)
	in = append(in, types.Email{Sender: "hr@example.com", Subject: "hello"})

	report, err := Run(context.Background(), in, Options{PlatformOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Filtered)
	require.Len(t, report.Items, 2)
	assert.Equal(t, 1, report.Items[1].Index)
}

func TestRunParseErrorDoesNotAbort(t *testing.T) {
	boom := errors.New("boom")
	parse := func(ctx context.Context, e types.Email) (types.ParseResult, error) {
		if e.Subject == "alert 1" {
			return nil, boom
		}
		return Local(ctx, e)
	}

	report, err := Run(context.Background(), emails(3), Options{Parse: parse})
	require.NoError(t, err)
	assert.ErrorIs(t, report.Items[1].Err, boom)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Categories[types.CategoryJobAlerts])
}

func TestRunNilResultCountsAsFailure(t *testing.T) {
	parse := func(context.Context, types.Email) (types.ParseResult, error) { return nil, nil }
	report, err := Run(context.Background(), emails(1), Options{Parse: parse})
	require.NoError(t, err)
	assert.Error(t, report.Items[0].Err)
	assert.Equal(t, 1, report.Failed)
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	var running, peak atomic.Int32
	parse := func(ctx context.Context, e types.Email) (types.ParseResult, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return Local(ctx, e)
	}

	_, err := Run(context.Background(), emails(30), Options{Workers: 3, Parse: parse})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, emails(5), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
