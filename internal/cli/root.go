// Package cli provides the jobtracker command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/YKarmar/JobTracker/internal/client"
	"github.com/YKarmar/JobTracker/internal/config"
)

// Version is set at build time.
var Version = "0.2.0"

const defaultConfigPath = "configs/config.yaml"

// app 命令之间共享的状态，在 PersistentPreRunE 里初始化
type app struct {
	configPath string
	endpoint   string
	verbose    bool

	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
}

// NewRootCmd 每次调用都返回一棵新的命令树
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "jobtracker",
		Short: "Extract job records from LinkedIn notification emails",
		Long: `jobtracker classifies LinkedIn notification emails by sender and
extracts job records (id, url, company, position, location, status) from
their bodies. Emails come from a CSV export or straight from IMAP.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closeLog != nil {
				_ = a.closeLog()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "config file")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "JSON-RPC endpoint of a running server (overrides server.endpoint)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.parseCmd(),
		a.fetchCmd(),
		a.classifyCmd(),
		a.serveCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		// 没有配置文件时使用默认配置
		cfg = config.Default()
	default:
		return err
	}
	if a.endpoint != "" {
		cfg.Server.Endpoint = a.endpoint
	}
	a.cfg = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log, a.closeLog = config.SetupLogger(cmd.ErrOrStderr(), cfg.Log.File, level)
	a.log.Debug("config loaded", "path", a.configPath, "endpoint", cfg.Server.Endpoint)
	return nil
}

// remote 配置了 endpoint 时返回远程客户端
func (a *app) remote() *client.Client {
	if a.cfg.Server.Endpoint == "" {
		return nil
	}
	return client.New(client.Config{Endpoint: a.cfg.Server.Endpoint, APIKey: a.cfg.Server.APIKey})
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func stderr(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
}
