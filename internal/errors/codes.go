package errors

// Code 是稳定错误码（字符串），供 AI/agent 与程序判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound    Code = "AIRTABLE_CFG_NOT_FOUND"
	CodeCfgInvalid     Code = "AIRTABLE_CFG_INVALID"
	CodeSecretNotFound Code = "AIRTABLE_SECRET_NOT_FOUND"

	// SSH egress tunnel
	CodeSSHAuthFailed      Code = "AIRTABLE_SSH_AUTH_FAILED"
	CodeSSHHostKeyMismatch Code = "AIRTABLE_SSH_HOSTKEY_MISMATCH"
	CodeSSHDialFailed      Code = "AIRTABLE_SSH_DIAL_FAILED"

	// Tools
	CodeToolNotFound Code = "AIRTABLE_TOOL_NOT_FOUND"
	CodeToolFailed   Code = "AIRTABLE_TOOL_FAILED"

	// Internal
	CodeInternal Code = "AIRTABLE_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeSSHAuthFailed,
		CodeSSHHostKeyMismatch,
		CodeSSHDialFailed,
		CodeToolNotFound,
		CodeToolFailed,
		CodeInternal,
	}
}
