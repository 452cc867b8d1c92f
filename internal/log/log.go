package log

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zx06/airtable-mcp/internal/errors"
)

// New 返回写入到 w 的 slog.Logger。
// 注意：stdio 模式下 stdout 承载 MCP 帧，日志必须写 stderr（由调用方传入）。
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel 解析 debug|info|warn|error，空串视为 info。
func ParseLevel(s string) (slog.Level, *errors.XError) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New(errors.CodeCfgInvalid, "invalid log level", map[string]any{"level": s})
	}
}

// Discard 返回丢弃所有输出的 logger，测试与未配置日志时使用。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
