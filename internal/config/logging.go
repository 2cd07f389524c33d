package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger 文本日志写到 stderr，JSON 日志追加到 logFile。
// logFile 为空或打不开时只写 stderr；返回的函数关闭日志文件
func SetupLogger(stderr io.Writer, logFile string, level slog.Level) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	if logFile == "" {
		return NewLogger(stderr, nil, level), noop
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := NewLogger(stderr, nil, level)
		logger.Warn("open log file failed, logging to stderr only", "file", logFile, "error", err)
		return logger, noop
	}
	return NewLogger(stderr, file, level), file.Close
}

// NewLogger 把同一条日志分发给 stderr（文本）和 file（JSON），file 可以为 nil
func NewLogger(stderr, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(stderr, opts)
	if file == nil {
		return slog.New(text)
	}
	return slog.New(slogmulti.Fanout(text, slog.NewJSONHandler(file, opts)))
}
