package output

import "github.com/zx06/airtable-mcp/internal/errors"

// SchemaVersion 是 CLI 输出 envelope 的版本；字段只增不改。
// 注意：这是命令行输出，与 MCP 工具的 {data, error, successful} 不同。
const SchemaVersion = 1

type ErrorObject struct {
	Code    errors.Code    `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

func newErrorObject(xe *errors.XError) *ErrorObject {
	if xe == nil {
		return &ErrorObject{Code: errors.CodeInternal, Message: "unknown error"}
	}
	return &ErrorObject{Code: xe.Code, Message: xe.Message, Details: xe.Details}
}

type Envelope struct {
	OK            bool         `json:"ok" yaml:"ok"`
	SchemaVersion int          `json:"schema_version" yaml:"schema_version"`
	Error         *ErrorObject `json:"error,omitempty" yaml:"error,omitempty"`
	Data          any          `json:"data,omitempty" yaml:"data,omitempty"`
}
