// Package batch runs the parser over many emails concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/YKarmar/JobTracker/internal/assemble"
	"github.com/YKarmar/JobTracker/internal/classify"
	"github.com/YKarmar/JobTracker/internal/types"
)

// DefaultMaxBodyBytes 单封邮件正文上限
const DefaultMaxBodyBytes = 500 * 1024

// ErrBodyTooLarge 正文超过上限，该邮件被跳过
var ErrBodyTooLarge = errors.New("email body too large")

var errEmptyResult = errors.New("parser returned no result")

// ParseFunc 解析一封邮件。默认直接调用本地引擎，也可以换成远程调用
type ParseFunc func(ctx context.Context, e types.Email) (types.ParseResult, error)

// Local 本地解析，不会失败
func Local(_ context.Context, e types.Email) (types.ParseResult, error) {
	return assemble.Parse(e), nil
}

type Options struct {
	Workers      int
	MaxBodyBytes int
	// PlatformOnly 只解析来自平台域名的邮件
	PlatformOnly bool
	Parse        ParseFunc
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Parse == nil {
		o.Parse = Local
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Item 一封邮件的处理结果，Err 不为空时 Result 为空
type Item struct {
	Index  int
	Email  types.Email
	Result types.ParseResult
	Err    error
}

// Report 一次批处理的汇总，Items 保持输入顺序
type Report struct {
	RunID      string
	Items      []Item
	Filtered   int
	Failed     int
	Categories map[types.Category]int
}

// Results 成功解析的结果，按输入顺序
func (r *Report) Results() []types.ParseResult {
	out := make([]types.ParseResult, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Err == nil && it.Result != nil {
			out = append(out, it.Result)
		}
	}
	return out
}

// Run 并发解析 emails。单封失败只记录在 Item.Err 里，不中断整批；
// 只有 ctx 取消时返回错误
func Run(ctx context.Context, emails []types.Email, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{
		RunID:      uuid.NewString(),
		Categories: map[types.Category]int{},
	}
	log := opts.Logger.With("run_id", report.RunID)

	pending := make([]Item, 0, len(emails))
	for i, e := range emails {
		if opts.PlatformOnly && !classify.IsPlatformSender(e.Sender) {
			report.Filtered++
			continue
		}
		pending = append(pending, Item{Index: i, Email: e})
	}
	log.Info("batch started", "emails", len(emails), "filtered", report.Filtered, "workers", opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range pending {
		it := &pending[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if len(it.Email.Body) > opts.MaxBodyBytes {
				it.Err = fmt.Errorf("email %d (%d bytes): %w", it.Index, len(it.Email.Body), ErrBodyTooLarge)
				return nil
			}
			it.Result, it.Err = opts.Parse(gctx, it.Email)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", report.RunID, err)
	}

	for i := range pending {
		it := &pending[i]
		if it.Err == nil && it.Result == nil {
			it.Err = errEmptyResult
		}
		if it.Err != nil {
			report.Failed++
			log.Warn("email skipped", "index", it.Index, "subject", it.Email.Subject, "error", it.Err)
			continue
		}
		report.Categories[it.Result.Meta().Category]++
	}
	report.Items = pending
	log.Info("batch finished", "parsed", len(pending)-report.Failed, "failed", report.Failed)
	return report, nil
}
