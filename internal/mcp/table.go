package mcp

import "sort"

// ToolList 是 tool list 的表格视图。
type ToolList []ToolInfo

func (l ToolList) ToTableData() ([]string, []map[string]any, bool) {
	rows := make([]map[string]any, 0, len(l))
	for _, t := range l {
		rows = append(rows, map[string]any{"name": t.Name, "description": t.Description})
	}
	return []string{"name", "description"}, rows, true
}

// ToTableData 仅当 data.records 是记录列表时按行渲染：id 在前，字段名排序后依次展开。
func (e Envelope) ToTableData() ([]string, []map[string]any, bool) {
	if e.Error != "" {
		return nil, nil, false
	}
	items, ok := e.Data["records"].([]any)
	if !ok {
		return nil, nil, false
	}

	seen := map[string]bool{}
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, nil, false
		}
		row := map[string]any{"id": rec["id"]}
		fields, _ := rec["fields"].(map[string]any)
		for k, v := range fields {
			seen[k] = true
			row[k] = v
		}
		rows = append(rows, row)
	}

	names := make([]string, 0, len(seen))
	for k := range seen {
		if k != "id" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return append([]string{"id"}, names...), rows, true
}
