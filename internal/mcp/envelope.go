package mcp

import (
	stderrors "errors"
	"fmt"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/errors"
)

// Envelope 是每个工具的统一返回结构。失败时 Data 恒为空对象而非 null。
type Envelope struct {
	Data       map[string]any `json:"data" yaml:"data"`
	Error      string         `json:"error" yaml:"error"`
	Successful bool           `json:"successful" yaml:"successful"`
}

func success(data map[string]any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{Data: data, Successful: true}
}

func failure(msg string) Envelope {
	return Envelope{Data: map[string]any{}, Error: msg}
}

// inputError 表示调用前即可判定的参数错误，原样作为 envelope.error 返回。
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

// errorEnvelope 把任意错误转换为失败 envelope。action 用于权限不足时的提示。
func errorEnvelope(err error, action string) Envelope {
	var ie *inputError
	if stderrors.As(err, &ie) {
		return failure(ie.msg)
	}
	if ae, ok := airtable.AsAPIError(err); ok {
		return failure(apiErrorMessage(ae, action))
	}
	return failure("Unexpected error: " + errors.Message(err))
}

func apiErrorMessage(ae *airtable.APIError, action string) string {
	var hint string
	switch ae.Kind {
	case airtable.KindAuthenticationRequired:
		hint = "Authentication failed. Please check your AIRTABLE_API_KEY."
	case airtable.KindInvalidAPIKey:
		hint = "Invalid API key. Please check your AIRTABLE_API_KEY."
	case airtable.KindInsufficientPermissions:
		hint = fmt.Sprintf("Insufficient permissions to %s. Check your API key permissions.", action)
	case airtable.KindWorkspaceNotFound:
		hint = "The specified workspace was not found or you don't have access to it."
	case airtable.KindTimeout:
		hint = "Request timed out. The Airtable API is taking too long to respond. This might be due to high server load or network issues."
	case airtable.KindNetwork:
		hint = "Network connectivity issue. Please check your internet connection."
	default:
		hint = "Unexpected error: " + ae.Message
	}
	return fmt.Sprintf("Airtable API Error: %s\n\n%s", ae.Kind, hint)
}

// errorKind 用于日志，区分参数、上游与内部错误。
func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var ie *inputError
	if stderrors.As(err, &ie) {
		return "invalid_input"
	}
	if ae, ok := airtable.AsAPIError(err); ok {
		return ae.Kind
	}
	return "unexpected"
}
