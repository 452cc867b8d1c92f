package ssh

import "time"

// Options 包含建立出站 SSH 隧道所需参数。
type Options struct {
	Host           string
	Port           int
	User           string
	IdentityFile   string // 私钥路径
	Passphrase     string // 私钥 passphrase（若有）
	KnownHostsFile string // 默认 ~/.ssh/known_hosts

	// DialTimeout 建立 TCP + 握手的超时，默认 DefaultDialTimeout。
	DialTimeout time.Duration

	// SkipKnownHostsCheck 跳过 known_hosts 校验（极不推荐！）
	SkipKnownHostsCheck bool
}

const DefaultDialTimeout = 10 * time.Second

func DefaultKnownHostsPath() string {
	return "~/.ssh/known_hosts"
}
