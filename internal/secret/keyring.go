package secret

import "strings"

// ServiceName 是 airtable-mcp 在 OS keyring 中使用的 service。
const ServiceName = "airtable-mcp"

// KeyringAPI 是对 OS keyring 的最小抽象，便于测试与跨平台。
type KeyringAPI interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

// 默认实现基于 zalando/go-keyring，平台差异见 keyring_*.go。
func defaultKeyring() KeyringAPI {
	return &osKeyring{}
}

type osKeyring struct{}

// stripNullBytes 去除 Windows 凭据管理器返回值中的 UTF-16 残留 null 字节。
func stripNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
