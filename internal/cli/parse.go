package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YKarmar/JobTracker/internal/batch"
	"github.com/YKarmar/JobTracker/internal/exporter"
	"github.com/YKarmar/JobTracker/internal/input"
	"github.com/YKarmar/JobTracker/internal/types"
)

// outputs 导出路径，命令行参数覆盖配置
type outputs struct {
	json, csv, xlsx, stats string
}

func (o *outputs) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.json, "json", "", "write full results as JSON")
	cmd.Flags().StringVar(&o.csv, "csv", "", "write job rows as CSV (default export.csv)")
	cmd.Flags().StringVar(&o.xlsx, "xlsx", "", "write job rows and statistics as XLSX")
	cmd.Flags().StringVar(&o.stats, "stats", "", "write statistics as CSV (default export.statistics)")
}

type parseOptions struct {
	workers    int
	allSenders bool
	out        outputs
}

func (a *app) parseCmd() *cobra.Command {
	var opts parseOptions
	cmd := &cobra.Command{
		Use:   "parse [emails.csv]",
		Short: "Parse emails from a CSV export",
		Long: `Parse emails from a CSV export with sender, subject, body and date
columns (names configurable under input.columns).

Examples:
  jobtracker parse emails.csv
  jobtracker parse emails.csv --xlsx jobs.xlsx --json jobs.json
  jobtracker parse emails.csv --endpoint http://localhost:8080/rpc`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Input.File
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no input file: pass one or set input.file")
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			emails, err := input.ReadCSV(f, a.cfg.Input.Columns)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			printf(cmd, "读取 %d 封邮件: %s\n", len(emails), path)
			return a.process(cmd, emails, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel parsers (default parse.workers)")
	cmd.Flags().BoolVar(&opts.allSenders, "all-senders", false, "parse mails from any sender, not only the platform domain")
	opts.out.register(cmd)
	return cmd
}

// process 批量解析、打印统计并导出
func (a *app) process(cmd *cobra.Command, emails []types.Email, opts parseOptions) error {
	bo := batch.Options{
		Workers:      a.cfg.Parse.Workers,
		MaxBodyBytes: a.cfg.Parse.MaxBodyBytes,
		PlatformOnly: !(a.cfg.Parse.AllSenders || opts.allSenders),
		Logger:       a.log,
	}
	if opts.workers > 0 {
		bo.Workers = opts.workers
	}
	if rc := a.remote(); rc != nil {
		bo.Parse = rc.Parse
		printf(cmd, "使用远程解析服务: %s\n", a.cfg.Server.Endpoint)
	}

	report, err := batch.Run(cmd.Context(), emails, bo)
	if err != nil {
		return err
	}
	results := report.Results()
	printf(cmd, "解析完成: %d 封成功, %d 封跳过, %d 封失败\n", len(results), report.Filtered, report.Failed)

	exporter.PrintJobStatistics(cmd.OutOrStdout(), results)
	return a.export(cmd, results, opts.out)
}

func (a *app) export(cmd *cobra.Command, results []types.ParseResult, o outputs) error {
	pick := func(flag, conf string) string {
		if flag != "" {
			return flag
		}
		return conf
	}
	targets := []struct {
		path  string
		write func(string) error
	}{
		{pick(o.csv, a.cfg.Export.CSV), func(p string) error { return exporter.NewCSVExporter(p).ExportJobs(results) }},
		{pick(o.stats, a.cfg.Export.Statistics), func(p string) error { return exporter.NewCSVExporter("").ExportStatistics(p, results) }},
		{pick(o.json, a.cfg.Export.JSON), func(p string) error { return exporter.ExportJSON(p, results) }},
		{pick(o.xlsx, a.cfg.Export.XLSX), func(p string) error { return exporter.ExportXLSX(p, results) }},
	}

	var failed int
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := t.write(t.path); err != nil {
			a.log.Error("export failed", "path", t.path, "error", err)
			stderr(cmd, "导出失败 %s: %v\n", t.path, err)
			failed++
			continue
		}
		printf(cmd, "✅ 已导出到: %s\n", t.path)
	}
	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}
	return nil
}
