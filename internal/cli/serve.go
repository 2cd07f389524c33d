package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/YKarmar/JobTracker/internal/batch"
	"github.com/YKarmar/JobTracker/internal/mailbox"
	"github.com/YKarmar/JobTracker/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON-RPC parsing server",
		Long: `Serve email.parse, email.parse_batch, email.classify and email.fetch
over JSON-RPC 2.0 at POST /rpc. email.fetch is only available when the imap
section is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = a.cfg.Server.Listen
			}

			var mb mailbox.Fetcher
			if err := a.cfg.ValidateIMAP(); err == nil {
				mb = mailbox.New(cmd.Context(), a.mailboxConfig(), a.log)
			} else {
				a.log.Info("email.fetch disabled", "reason", err)
			}

			srv := server.New(server.Options{
				APIKey:  a.cfg.Server.APIKey,
				Mailbox: mb,
				Batch: batch.Options{
					Workers:      a.cfg.Parse.Workers,
					MaxBodyBytes: a.cfg.Parse.MaxBodyBytes,
				},
				Logger: a.log,
			})
			return a.listenAndServe(cmd.Context(), listen, srv.Handler())
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default server.listen)")
	return cmd
}

// listenAndServe ctx 取消后优雅关闭
func (a *app) listenAndServe(ctx context.Context, addr string, h http.Handler) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.log.Info("server stopped")
	return nil
}
