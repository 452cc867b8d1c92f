package mcp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/output"
)

func TestToolList_ToTableData(t *testing.T) {
	list := ToolList(NewToolHandler(fakeOptions()).Tools())
	cols, rows, ok := list.ToTableData()
	if !ok {
		t.Fatal("expected table data")
	}
	if strings.Join(cols, ",") != "name,description" {
		t.Errorf("columns=%v", cols)
	}
	if len(rows) != 17 {
		t.Errorf("rows=%d want 17", len(rows))
	}
}

func TestEnvelope_ToTableData(t *testing.T) {
	env := success(map[string]any{
		"records": []any{
			map[string]any{"id": "rec1", "fields": map[string]any{"Name": "Ada", "Age": float64(36)}},
			map[string]any{"id": "rec2", "fields": map[string]any{"Name": "Grace", "Email": "g@example.com"}},
		},
		"records_count": 2,
	})
	cols, rows, ok := env.ToTableData()
	if !ok {
		t.Fatal("expected table data")
	}
	if got := strings.Join(cols, ","); got != "id,Age,Email,Name" {
		t.Errorf("columns=%s", got)
	}
	if len(rows) != 2 || rows[1]["Email"] != "g@example.com" {
		t.Errorf("rows=%v", rows)
	}
	if _, has := rows[0]["Email"]; has {
		t.Errorf("rec1 should not carry Email: %v", rows[0])
	}
}

func TestEnvelope_ToTableData_NotRecords(t *testing.T) {
	cases := []struct {
		name string
		env  Envelope
	}{
		{"failure", failure("Base ID is required")},
		{"no records", success(map[string]any{"record_id": "rec1"})},
		{"records not objects", success(map[string]any{"records": []any{"rec1"}})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, ok := tc.env.ToTableData(); ok {
				t.Fatal("expected ok=false")
			}
		})
	}
}

func TestEnvelope_RendersAsCSV(t *testing.T) {
	env := success(map[string]any{
		"records": []any{
			map[string]any{"id": "rec1", "fields": map[string]any{"Name": "Ada"}},
		},
	})
	var out bytes.Buffer
	w := output.New(&out, &bytes.Buffer{})
	if err := w.WriteOK(output.FormatCSV, env); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "id,Name\nrec1,Ada\n" {
		t.Errorf("csv=%q", got)
	}
}

func fakeOptions() airtable.Options {
	return airtable.Options{APIKey: "patTEST", BaseURL: "http://127.0.0.1:1/v0"}
}
