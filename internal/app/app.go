package app

import (
	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/output"
	"github.com/zx06/airtable-mcp/internal/spec"
)

// 环境变量名；CLI > ENV > Config。
const (
	EnvAPIKey   = "AIRTABLE_API_KEY"
	EnvBaseURL  = "AIRTABLE_BASE_URL"
	EnvFormat   = "AIRTABLE_MCP_FORMAT"
	EnvLogLevel = "AIRTABLE_MCP_LOG_LEVEL"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

// UserAgent 用于 Airtable 出站请求。
func (a App) UserAgent() string {
	v := a.Version
	if v == "" {
		v = "dev"
	}
	return "airtable-mcp/" + v
}

func (a App) BuildSpec() spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./airtable-mcp.yaml or $HOME/.config/airtable-mcp/airtable-mcp.yaml"},
		{Name: "format", Shorthand: "f", Env: EnvFormat, Default: "auto", Description: "Output format: json|yaml|table|csv|auto"},
		{Name: "log-level", Env: EnvLogLevel, Default: "info", Description: "Log level: debug|info|warn|error (logs go to stderr)"},
	}
	withFlags := func(extra ...spec.FlagSpec) []spec.FlagSpec {
		out := make([]spec.FlagSpec, 0, len(globalFlags)+len(extra))
		out = append(out, globalFlags...)
		return append(out, extra...)
	}
	tunnelFlag := spec.FlagSpec{Name: "ssh-skip-known-hosts-check", Default: "false", Description: "Skip SSH known_hosts check for ssh_proxy (dangerous)"}

	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Commands: []spec.CommandSpec{
			{
				Name:        "spec",
				Description: "Export tool spec for AI/agents",
				Flags:       globalFlags,
			},
			{
				Name:        "version",
				Description: "Print version information",
				Flags:       globalFlags,
			},
			{
				Name:        "mcp server",
				Description: "Run the Airtable MCP server (stdio or streamable_http)",
				Flags: withFlags(
					spec.FlagSpec{Name: "transport", Default: "stdio", Description: "MCP transport: stdio|streamable_http"},
					spec.FlagSpec{Name: "http-addr", Default: "127.0.0.1:8787", Description: "Listen address for streamable_http"},
					spec.FlagSpec{Name: "http-auth-token", Description: "Bearer token for streamable_http (supports keyring:<account>)"},
					spec.FlagSpec{Name: "allow-plaintext-token", Default: "false", Description: "Allow plaintext auth token"},
					tunnelFlag,
				),
			},
			{
				Name:        "tool list",
				Description: "List the Airtable tools exposed over MCP",
				Flags:       globalFlags,
			},
			{
				Name:        "tool call",
				Description: "Invoke one Airtable tool and print its envelope",
				Flags: withFlags(
					spec.FlagSpec{Name: "args", Default: "", Description: "Tool arguments as a JSON object; '-' reads stdin"},
					tunnelFlag,
				),
			},
			{
				Name:        "secret set",
				Description: "Store a secret (API key, passphrase, token) in the OS keyring",
				Flags:       globalFlags,
			},
			{
				Name:        "secret delete",
				Description: "Delete a secret from the OS keyring",
				Flags:       globalFlags,
			},
		},
		ErrorCodes: errors.AllCodes(),
	}
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{Version: a.Version, Commit: a.Commit, Date: a.Date}
}
