package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// required 描述一个必填字符串参数及其缺失提示。
type required struct {
	value   string
	message string
}

// checkRequired 依次检查必填参数，第一个为空（含仅空白）的返回错误。
func checkRequired(fields ...required) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return invalid("%s", f.message)
		}
	}
	return nil
}

func decodeJSON(param, raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return nil, invalid("Invalid JSON format for %s parameter: %s", param, err.Error())
	}
	return v, nil
}

// decodeArray 解析 JSON 数组参数；合法 JSON 但不是数组时返回 shapeMsg。
func decodeArray(param, raw, shapeMsg string) ([]any, error) {
	v, err := decodeJSON(param, raw)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, invalid("%s", shapeMsg)
	}
	return arr, nil
}

func decodeObject(param, raw, shapeMsg string) (map[string]any, error) {
	v, err := decodeJSON(param, raw)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("%s", shapeMsg)
	}
	return obj, nil
}

// objectsWithKeys 要求每个元素都是对象且包含 keys，否则按 format(index) 报错。
func objectsWithKeys(items []any, format string, keys ...string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid(format, i)
		}
		for _, k := range keys {
			if _, ok := obj[k]; !ok {
				return nil, invalid(format, i)
			}
		}
		out = append(out, obj)
	}
	return out, nil
}

func stringList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// unwrap 取 resp[key]；Airtable 多数端点直接返回对象本身，此时返回 resp。
func unwrap(resp map[string]any, key string) map[string]any {
	if v, ok := resp[key].(map[string]any); ok {
		return v
	}
	return resp
}

func listOf(resp map[string]any, key string) []any {
	if v, ok := resp[key].([]any); ok {
		return v
	}
	return []any{}
}

func stringOf(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
