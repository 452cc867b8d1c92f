package config

import "time"

// File 表示 airtable-mcp.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config。
type File struct {
	APIKey         string `yaml:"api_key"` // 支持 keyring:xxx 引用
	AllowPlaintext bool   `yaml:"allow_plaintext"`
	BaseURL        string `yaml:"base_url"`
	Timeout        string `yaml:"timeout"` // time.ParseDuration 格式，默认 10s
	LogLevel       string `yaml:"log_level"`
	Format         string `yaml:"format"`

	SSHProxy *SSHProxy `yaml:"ssh_proxy"`
	MCP      MCPConfig `yaml:"mcp"`
}

// SSHProxy 配置 Airtable 出站请求走的 SSH 隧道（可选）。
type SSHProxy struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	IdentityFile   string `yaml:"identity_file"`
	Passphrase     string `yaml:"passphrase"` // 支持 keyring:xxx 引用
	KnownHostsFile string `yaml:"known_hosts_file"`
	SkipHostKey    bool   `yaml:"skip_host_key"` // 极不推荐
}

type MCPConfig struct {
	Transport string        `yaml:"transport"` // stdio | streamable_http
	HTTP      MCPHTTPConfig `yaml:"http"`
}

type MCPHTTPConfig struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keyring:xxx 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

// Resolved 是合并 CLI/ENV/Config 之后的结果。
// APIKey 可以为空：缺失只在第一次工具调用时报错。
type Resolved struct {
	ConfigPath string
	Format     string
	LogLevel   string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	File       File
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIFormat      string
	CLIFormatSet   bool
	CLILogLevel    string
	CLILogLevelSet bool

	// ENV（由调用方注入，便于测试）
	EnvAPIKey   string
	EnvBaseURL  string
	EnvFormat   string
	EnvLogLevel string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}
