package secret

import (
	"strings"

	"github.com/zx06/airtable-mcp/internal/errors"
)

const keyringPrefix = "keyring:"

// DefaultAccount 是未指定 account 时 API key 的存放位置。
const DefaultAccount = "default"

// Options 控制 secret 解析行为。
type Options struct {
	AllowPlaintext bool       // 是否允许明文（默认 false）
	Keyring        KeyringAPI // 可注入的 keyring 实现（nil 则用默认）
}

func (o Options) keyring() KeyringAPI {
	if o.Keyring != nil {
		return o.Keyring
	}
	return defaultKeyring()
}

// Resolve 解析 secret 值：
//  1. keyring:<account> → 从 keyring（service=airtable-mcp）读取
//  2. 否则若为明文且允许明文 → 直接返回
//  3. 否则报错
func Resolve(raw string, opts Options) (string, *errors.XError) {
	if IsKeyringRef(raw) {
		account, xe := parseKeyringRef(strings.TrimPrefix(raw, keyringPrefix))
		if xe != nil {
			return "", xe
		}
		val, err := opts.keyring().Get(ServiceName, account)
		if err != nil {
			return "", errors.Wrap(errors.CodeSecretNotFound, "failed to read secret from keyring", map[string]any{"account": account}, err)
		}
		return stripNullBytes(val), nil
	}
	if opts.AllowPlaintext {
		return raw, nil
	}
	return "", errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use keyring: reference or set allow_plaintext", nil)
}

// Store 把 value 写入 keyring 的 account。
func Store(account, value string, opts Options) *errors.XError {
	account, xe := parseKeyringRef(account)
	if xe != nil {
		return xe
	}
	if strings.TrimSpace(value) == "" {
		return errors.New(errors.CodeCfgInvalid, "secret value is empty", nil)
	}
	if err := opts.keyring().Set(ServiceName, account, value); err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to write secret to keyring", map[string]any{"account": account}, err)
	}
	return nil
}

// Remove 删除 keyring 中的 account。
func Remove(account string, opts Options) *errors.XError {
	account, xe := parseKeyringRef(account)
	if xe != nil {
		return xe
	}
	if err := opts.keyring().Delete(ServiceName, account); err != nil {
		return errors.Wrap(errors.CodeSecretNotFound, "failed to delete secret from keyring", map[string]any{"account": account}, err)
	}
	return nil
}

// IsKeyringRef 判断值是否为 keyring 引用。
func IsKeyringRef(s string) bool {
	return strings.HasPrefix(s, keyringPrefix)
}

func parseKeyringRef(account string) (string, *errors.XError) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", errors.New(errors.CodeCfgInvalid, "keyring account is empty", nil)
	}
	return account, nil
}
