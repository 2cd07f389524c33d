package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YKarmar/JobTracker/internal/input"
	"github.com/YKarmar/JobTracker/internal/mailbox"
	"github.com/YKarmar/JobTracker/internal/server"
	"github.com/YKarmar/JobTracker/internal/types"
)

const alertBody = `<p>Your job alert for php developer</p>` +
	`<a href="https://www.linkedin.com/comm/jobs/view/2318780725/?trackingId=abc">PHP Developer</a>` +
	`<p>JotForm &middot; Ankara, Turkey</p>`

var sample = []types.Email{
	{Sender: "LinkedIn <jobalerts-noreply@linkedin.com>", Subject: "Your job alert for php developer has been created", Body: alertBody, Date: "2024-03-04"},
	{Sender: "friend@example.com", Subject: "lunch?", Body: "see you"},
}

// workspace 临时目录里的配置文件，日志和导出都写到这里
func workspace(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "config.yaml")
	yaml := "log:\n  file: " + filepath.Join(dir, "run.log") + "\n" +
		"export:\n  csv: " + filepath.Join(dir, "jobs.csv") + "\n" +
		"  statistics: " + filepath.Join(dir, "stats.csv") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))
	return dir, cfgPath
}

func writeEmails(t *testing.T, path string, emails []types.Email) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, input.WriteCSV(&buf, input.Columns{}, emails))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	dir, cfg := workspace(t)
	in := filepath.Join(dir, "emails.csv")
	writeEmails(t, in, sample)
	jsonOut := filepath.Join(dir, "out.json")
	xlsxOut := filepath.Join(dir, "out.xlsx")

	out, err := run(t, "parse", in, "--config", cfg, "--json", jsonOut, "--xlsx", xlsxOut)
	require.NoError(t, err)
	assert.Contains(t, out, "读取 2 封邮件")
	assert.Contains(t, out, "解析完成: 1 封成功, 1 封跳过, 0 封失败")
	assert.Contains(t, out, "JotForm: 1 次")

	jobs, err := os.ReadFile(filepath.Join(dir, "jobs.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(jobs), "job_alerts,jobs,2318780725,https://www.linkedin.com/jobs/view/2318780725,JotForm,PHP Developer,\"Ankara, Turkey\"")

	for _, p := range []string{jsonOut, xlsxOut, filepath.Join(dir, "stats.csv"), filepath.Join(dir, "run.log")} {
		assert.FileExists(t, p)
	}
}

func TestParseCommandAllSenders(t *testing.T) {
	dir, cfg := workspace(t)
	in := filepath.Join(dir, "emails.csv")
	writeEmails(t, in, sample)

	out, err := run(t, "parse", in, "--config", cfg, "--all-senders")
	require.NoError(t, err)
	assert.Contains(t, out, "解析完成: 2 封成功, 0 封跳过")
	assert.Contains(t, out, "Unknown LinkedIn Email: 1 封")
}

func TestParseCommandErrors(t *testing.T) {
	dir, cfg := workspace(t)

	_, err := run(t, "parse", "--config", cfg)
	assert.ErrorContains(t, err, "no input file")

	_, err = run(t, "parse", filepath.Join(dir, "missing.csv"), "--config", cfg)
	assert.ErrorContains(t, err, "open input")

	_, err = run(t, "classify", "x", "--config", filepath.Join(dir, "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestClassifyCommand(t *testing.T) {
	_, cfg := workspace(t)
	out, err := run(t, "classify", "--config", cfg, "jobalerts-noreply@linkedin.com", "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t,
		"jobalerts-noreply@linkedin.com\tjob_alerts\tJob Alert\n"+
			"someone@example.com\tunknown\tUnknown LinkedIn Email\n",
		out)
}

type stubMailbox struct{}

func (stubMailbox) Fetch(context.Context, mailbox.Query) ([]types.Email, error) {
	return sample[:1], nil
}

func TestRemoteCommands(t *testing.T) {
	ts := httptest.NewServer(server.New(server.Options{Mailbox: stubMailbox{}}).Handler())
	defer ts.Close()
	endpoint := ts.URL + "/rpc"

	dir, cfg := workspace(t)

	out, err := run(t, "classify", "--config", cfg, "--endpoint", endpoint, "updates-noreply@linkedin.com")
	require.NoError(t, err)
	assert.Contains(t, out, "\tupdates\t")

	in := filepath.Join(dir, "emails.csv")
	writeEmails(t, in, sample)
	out, err = run(t, "parse", in, "--config", cfg, "--endpoint", endpoint)
	require.NoError(t, err)
	assert.Contains(t, out, "使用远程解析服务")
	assert.Contains(t, out, "解析完成: 1 封成功")

	saved := filepath.Join(dir, "fetched.csv")
	out, err = run(t, "fetch", "--config", cfg, "--endpoint", endpoint, "--save", saved, "--no-parse")
	require.NoError(t, err)
	assert.Contains(t, out, "成功获取 1 封邮件")
	assert.NotContains(t, out, "解析完成")

	f, err := os.Open(saved)
	require.NoError(t, err)
	defer f.Close()
	emails, err := input.ReadCSV(f, input.Columns{})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, sample[0].Subject, emails[0].Subject)
}

func TestFetchRequiresIMAP(t *testing.T) {
	_, cfg := workspace(t)
	_, err := run(t, "fetch", "--config", cfg)
	assert.ErrorContains(t, err, "imap.email")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, Version))
}
