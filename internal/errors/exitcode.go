package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: 连接错误（SSH 隧道）
	ExitConnect ExitCode = 3

	// 6: 工具调用返回失败 envelope
	ExitTool ExitCode = 6

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeCfgNotFound, CodeCfgInvalid, CodeSecretNotFound, CodeToolNotFound:
		return ExitConfig
	case CodeSSHAuthFailed, CodeSSHHostKeyMismatch, CodeSSHDialFailed:
		return ExitConnect
	case CodeToolFailed:
		return ExitTool
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
