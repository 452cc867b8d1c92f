package output

import "strings"

type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// Formats 按帮助文本中的顺序列出全部格式。
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTable, FormatCSV, FormatAuto}
}

func IsValid(f Format) bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat 忽略大小写与首尾空白；未知格式返回 ok=false。
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	return f, IsValid(f)
}
