package main

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/zx06/airtable-mcp/internal/app"
	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/output"
)

// parseOutputFormat parses and validates the output format string
func parseOutputFormat(s string) (output.Format, error) {
	f, ok := output.ParseFormat(s)
	if !ok {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s, "allowed": output.Formats()})
	}
	return resolveAuto(f), nil
}

// resolveFormatForError resolves the format for error output
func resolveFormatForError(s string) output.Format {
	f, ok := output.ParseFormat(s)
	if !ok {
		f = output.FormatAuto
	}
	return resolveAuto(f)
}

// resolveAuto resolves "auto" format to appropriate format based on TTY
func resolveAuto(f output.Format) output.Format {
	if f != output.FormatAuto {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return output.FormatTable
	}
	return output.FormatJSON
}

// normalizeErr normalizes any error to XError
func normalizeErr(err error) *errors.XError {
	if xe, ok := errors.As(err); ok {
		return xe
	}
	// Preserve original error message
	return errors.Wrap(errors.CodeInternal, err.Error(), nil, err)
}

// openConnection 按已解析配置建立（可选的）SSH 隧道并返回 client 参数。
func openConnection(ctx context.Context, a *app.App, skipHostKeyCheck bool) (*app.Connection, *errors.XError) {
	return app.ResolveConnection(ctx, app.ConnectionOptions{
		Resolved:         GlobalConfig.Resolved,
		Logger:           GlobalConfig.Logger,
		UserAgent:        a.UserAgent(),
		SkipHostKeyCheck: skipHostKeyCheck,
	})
}
