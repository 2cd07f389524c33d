package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/YKarmar/JobTracker/internal/input"
	"github.com/YKarmar/JobTracker/internal/mailbox"
	"github.com/YKarmar/JobTracker/internal/types"
)

func (a *app) fetchCmd() *cobra.Command {
	var (
		opts    parseOptions
		save    string
		noParse bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch emails over IMAP and parse them",
		Long: `Fetch platform emails in the configured date window (fetch.start,
fetch.end) and parse them. With --endpoint the server does the IMAP work.

Examples:
  jobtracker fetch
  jobtracker fetch --save emails.csv --no-parse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher, err := a.fetcher(cmd)
			if err != nil {
				return err
			}

			start, end := a.cfg.FetchWindow(time.Now())
			printf(cmd, "正在获取邮件 (时间范围: %s 到 %s)...\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
			emails, err := fetcher.Fetch(cmd.Context(), mailbox.Query{
				Since:     start,
				Before:    end,
				Sender:    a.cfg.Fetch.Sender,
				MaxEmails: a.cfg.Fetch.MaxEmails,
			})
			if err != nil {
				return fmt.Errorf("fetch emails: %w", err)
			}
			printf(cmd, "成功获取 %d 封邮件\n", len(emails))

			if save != "" {
				if err := saveEmails(save, a.cfg.Input.Columns, emails); err != nil {
					return err
				}
				printf(cmd, "✅ 原始邮件已保存到: %s\n", save)
			}
			if noParse || len(emails) == 0 {
				return nil
			}
			return a.process(cmd, emails, opts)
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "also save the raw emails as CSV (readable by parse)")
	cmd.Flags().BoolVar(&noParse, "no-parse", false, "only fetch, do not parse")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel parsers (default parse.workers)")
	opts.out.register(cmd)
	return cmd
}

func (a *app) fetcher(cmd *cobra.Command) (mailbox.Fetcher, error) {
	if rc := a.remote(); rc != nil {
		return rc, nil
	}
	if err := a.cfg.ValidateIMAP(); err != nil {
		return nil, err
	}
	return mailbox.New(cmd.Context(), a.mailboxConfig(), a.log), nil
}

func (a *app) mailboxConfig() mailbox.Config {
	c := a.cfg.IMAP
	return mailbox.Config{
		Host:              c.Host,
		Email:             c.Email,
		Password:          c.Password,
		UseTLS:            c.UseTLS,
		Provider:          c.Provider,
		Folders:           c.Folders,
		OAuthClientID:     c.OAuthClientID,
		OAuthClientSecret: c.OAuthClientSecret,
		OAuthRefreshToken: c.OAuthRefreshToken,
	}
}

func saveEmails(path string, cols input.Columns, emails []types.Email) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := input.WriteCSV(f, cols, emails); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
