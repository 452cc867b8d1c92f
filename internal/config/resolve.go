package config

import (
	"strings"
	"time"

	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/secret"
)

const DefaultTimeout = 10 * time.Second

// Resolve 合并配置：CLI > ENV > Config。
// kr 为 nil 时使用系统 keyring。
func Resolve(opts Options, kr secret.KeyringAPI) (Resolved, *errors.XError) {
	// 1) 读取配置文件（如有）
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// 2) format：--format > AIRTABLE_MCP_FORMAT > config.format > auto
	format := FirstNonEmpty(ValueIfSet(opts.CLIFormatSet, opts.CLIFormat), opts.EnvFormat, cfg.Format, "auto")

	// 3) log level：--log-level > AIRTABLE_MCP_LOG_LEVEL > config.log_level > info
	logLevel := FirstNonEmpty(ValueIfSet(opts.CLILogLevelSet, opts.CLILogLevel), opts.EnvLogLevel, cfg.LogLevel, "info")

	// 4) API key：AIRTABLE_API_KEY（环境变量视为可信明文）> config.api_key
	apiKey := strings.TrimSpace(opts.EnvAPIKey)
	if apiKey == "" && cfg.APIKey != "" {
		v, xe := secret.Resolve(cfg.APIKey, secret.Options{AllowPlaintext: cfg.AllowPlaintext, Keyring: kr})
		if xe != nil {
			return Resolved{}, xe
		}
		apiKey = strings.TrimSpace(v)
	}

	// 5) 超时
	timeout := DefaultTimeout
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil || d <= 0 {
			return Resolved{}, errors.New(errors.CodeCfgInvalid, "invalid timeout", map[string]any{"timeout": cfg.Timeout})
		}
		timeout = d
	}

	return Resolved{
		ConfigPath: cfgPath,
		Format:     format,
		LogLevel:   logLevel,
		APIKey:     apiKey,
		BaseURL:    FirstNonEmpty(opts.EnvBaseURL, cfg.BaseURL),
		Timeout:    timeout,
		File:       cfg,
	}, nil
}

// ValueIfSet 仅在 flag 被显式设置时返回其值。
func ValueIfSet(set bool, value string) string {
	if !set {
		return ""
	}
	return value
}

// FirstNonEmpty 返回第一个非空值。
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
