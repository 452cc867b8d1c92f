package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zx06/airtable-mcp/internal/app"
	"github.com/zx06/airtable-mcp/internal/config"
	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/log"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config holds the resolved configuration
type Config struct {
	FormatStr   string
	ConfigStr   string
	LogLevelStr string
	Resolved    config.Resolved

	// Stderr 接收日志；stdio 模式下 stdout 只能写 MCP 帧。
	Stderr io.Writer
	Logger *slog.Logger
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "airtable-mcp",
		Short:         "Airtable tools for AI assistants over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI > ENV > Config
			formatSet := cmd.Flags().Changed("format")
			logLevelSet := cmd.Flags().Changed("log-level")
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			r, xe := config.Resolve(config.Options{
				ConfigPath:     GlobalConfig.ConfigStr,
				CLIFormat:      GlobalConfig.FormatStr,
				CLIFormatSet:   formatSet,
				CLILogLevel:    GlobalConfig.LogLevelStr,
				CLILogLevelSet: logLevelSet,
				EnvAPIKey:      os.Getenv(app.EnvAPIKey),
				EnvBaseURL:     os.Getenv(app.EnvBaseURL),
				EnvFormat:      os.Getenv(app.EnvFormat),
				EnvLogLevel:    os.Getenv(app.EnvLogLevel),
			}, nil)
			if xe != nil {
				return xe
			}
			level, xe := log.ParseLevel(r.LogLevel)
			if xe != nil {
				return xe
			}

			stderr := GlobalConfig.Stderr
			if stderr == nil {
				stderr = os.Stderr
			}
			GlobalConfig.Resolved = r
			GlobalConfig.FormatStr = r.Format
			GlobalConfig.LogLevelStr = r.LogLevel
			GlobalConfig.Logger = log.New(stderr, level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./airtable-mcp.yaml or $HOME/.config/airtable-mcp/airtable-mcp.yaml")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: json|yaml|table|csv|auto")
	root.PersistentFlags().StringVar(&GlobalConfig.LogLevelStr, "log-level", "info", "Log level: debug|info|warn|error (logs go to stderr)")

	return root
}
