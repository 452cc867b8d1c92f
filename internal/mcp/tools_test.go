package mcp

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/errors"
)

func callTool(t *testing.T, h *ToolHandler, name string, args map[string]any) Envelope {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	env, err := h.Call(context.Background(), name, raw)
	if err != nil {
		t.Fatalf("Call(%s): %v", name, err)
	}
	return env
}

func assertFailure(t *testing.T, env Envelope, wantContains string) {
	t.Helper()
	if env.Successful {
		t.Fatalf("expected failure, got success: %+v", env)
	}
	if env.Data == nil || len(env.Data) != 0 {
		t.Errorf("failure data should be empty object, got %#v", env.Data)
	}
	if !strings.Contains(env.Error, wantContains) {
		t.Errorf("error %q does not contain %q", env.Error, wantContains)
	}
}

func TestCatalog(t *testing.T) {
	h := NewToolHandler(airtable.Options{})
	tools := h.Tools()
	if len(tools) != 17 {
		t.Fatalf("expected 17 tools, got %d", len(tools))
	}
	seen := map[string]bool{}
	for _, tool := range tools {
		if !strings.HasPrefix(tool.Name, "airtable_") {
			t.Errorf("tool %q lacks airtable_ prefix", tool.Name)
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true
		if tool.InputSchema == nil || tool.InputSchema.Type != "object" {
			t.Errorf("tool %q should have an object input schema", tool.Name)
		}
		if len(tool.InputSchema.Required) != 0 {
			t.Errorf("tool %q should not mark fields required: %v", tool.Name, tool.InputSchema.Required)
		}
	}
}

func TestCellFormatEnum(t *testing.T) {
	h := NewToolHandler(airtable.Options{})
	for _, tool := range h.Tools() {
		if tool.Name != "airtable_get_record" && tool.Name != "airtable_list_records" {
			continue
		}
		p := tool.InputSchema.Properties["cell_format"]
		if p == nil || len(p.Enum) != 2 {
			t.Errorf("%s cell_format enum = %v", tool.Name, p)
		}
	}
}

func TestRequiredFields(t *testing.T) {
	cases := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"airtable_create_base", map[string]any{"tables": "[]", "workspace_id": "wsp1"}, "Base name is required"},
		{"airtable_create_base", map[string]any{"name": "B", "workspace_id": "  ", "tables": "[]"}, "Workspace ID is required"},
		{"airtable_create_base", map[string]any{"name": "B", "workspace_id": "wsp1"}, "Tables configuration is required"},
		{"airtable_create_comment", map[string]any{"record_id": "rec1", "table_id_or_name": "t", "text": "x"}, "Base ID is required"},
		{"airtable_create_comment", map[string]any{"base_id": "app1", "table_id_or_name": "t", "text": "x"}, "Record ID is required"},
		{"airtable_create_comment", map[string]any{"base_id": "app1", "record_id": "rec1", "text": "x"}, "Table ID or name is required"},
		{"airtable_create_comment", map[string]any{"base_id": "app1", "record_id": "rec1", "table_id_or_name": "t", "text": "\t"}, "Comment text is required"},
		{"airtable_create_field", map[string]any{"base_id": "app1", "name": "F"}, "Table ID is required"},
		{"airtable_create_field", map[string]any{"base_id": "app1", "table_id": "tbl1"}, "Field name is required"},
		{"airtable_create_multiple_records", map[string]any{"base_id": "app1", "table_id_or_name": "t"}, "Records data is required"},
		{"airtable_create_record", map[string]any{"base_id": "app1", "table_id_or_name": "t", "fields": " "}, "Fields data is required"},
		{"airtable_create_table", map[string]any{"base_id": "app1", "fields": "[]"}, "Table name is required"},
		{"airtable_get_base_schema", map[string]any{}, "Base ID is required"},
		{"airtable_get_record", map[string]any{"base_id": "app1", "table_id_or_name": "t"}, "Record ID is required"},
		{"airtable_list_comments", map[string]any{"base_id": "app1", "record_id": "rec1"}, "Table ID or name is required"},
		{"airtable_delete_record", map[string]any{"base_id": "", "table_id_or_name": "t", "record_id": "r"}, "Base ID is required"},
		{"airtable_delete_multiple_records", map[string]any{"base_id": "app1", "table_id_or_name": "t"}, "Record IDs are required"},
		{"airtable_delete_comment", map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "r"}, "Row comment ID is required"},
		{"airtable_update_record", map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "r"}, "Fields data is required"},
		{"airtable_update_multiple_records", map[string]any{"base_id": "app1", "table_id_or_name": "t"}, "Records data is required"},
		{"airtable_list_records", map[string]any{"base_id": "app1"}, "Table ID or name is required"},
	}
	f := newFakeAirtable(t)
	h := f.handler()
	for _, tc := range cases {
		t.Run(tc.tool+"/"+tc.want, func(t *testing.T) {
			env := callTool(t, h, tc.tool, tc.args)
			assertFailure(t, env, tc.want)
			if env.Error != tc.want {
				t.Errorf("error=%q want exactly %q", env.Error, tc.want)
			}
		})
	}
	if n := len(f.seen()); n != 0 {
		t.Fatalf("validation failures must not reach the network, saw %d requests", n)
	}
}

func TestInvalidJSON(t *testing.T) {
	cases := []struct {
		tool  string
		args  map[string]any
		param string
	}{
		{"airtable_create_base", map[string]any{"name": "B", "workspace_id": "w", "tables": "[{"}, "tables"},
		{"airtable_create_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": "nope"}, "records"},
		{"airtable_create_record", map[string]any{"base_id": "a", "table_id_or_name": "t", "fields": "{bad"}, "fields"},
		{"airtable_create_table", map[string]any{"base_id": "a", "name": "T", "fields": "["}, "fields"},
		{"airtable_delete_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_ids": "[rec1]"}, "record_ids"},
		{"airtable_update_record", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_id": "r", "fields": "}"}, "fields"},
		{"airtable_update_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": "[1,"}, "records"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "fields": "[x"}, "fields"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "sort": "{"}, "sort"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_metadata": "?"}, "record_metadata"},
	}
	f := newFakeAirtable(t)
	h := f.handler()
	for _, tc := range cases {
		t.Run(tc.tool+"/"+tc.param, func(t *testing.T) {
			env := callTool(t, h, tc.tool, tc.args)
			assertFailure(t, env, "Invalid JSON format for "+tc.param+" parameter: ")
			// 必须带上解析器的原始错误文本
			var v any
			parseErr := json.Unmarshal([]byte(tc.args[tc.param].(string)), &v)
			if parseErr == nil || !strings.Contains(env.Error, parseErr.Error()) {
				t.Errorf("error %q should embed parser message %v", env.Error, parseErr)
			}
		})
	}
	if n := len(f.seen()); n != 0 {
		t.Fatalf("saw %d requests", n)
	}
}

func TestWrongShape(t *testing.T) {
	cases := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"airtable_create_base", map[string]any{"name": "B", "workspace_id": "w", "tables": `{"name":"T"}`}, "Tables must be an array of table objects"},
		{"airtable_create_base", map[string]any{"name": "B", "workspace_id": "w", "tables": `[{"name":"T","fields":[]},{"name":"U"}]`}, "Table at index 1 must have 'name' and 'fields' properties"},
		{"airtable_create_base", map[string]any{"name": "B", "workspace_id": "w", "tables": `["T"]`}, "Table at index 0 must have 'name' and 'fields' properties"},
		{"airtable_create_record", map[string]any{"base_id": "a", "table_id_or_name": "t", "fields": `[1]`}, "Fields must be a JSON object"},
		{"airtable_create_table", map[string]any{"base_id": "a", "name": "T", "fields": `{}`}, "Fields must be an array of field objects"},
		{"airtable_create_table", map[string]any{"base_id": "a", "name": "T", "fields": `[{"name":"A","type":"number"},{"name":"B"}]`}, "Field at index 1 must have 'name' and 'type' properties"},
		{"airtable_create_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": `{}`}, "Records must be an array of record objects"},
		{"airtable_create_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": `[{"id":"x"}]`}, "Record at index 0 must have 'fields' property"},
		{"airtable_update_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": `["x"]`}, "Record at index 0 must be an object"},
		{"airtable_update_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": `[{"fields":{}}]`}, "Record at index 0 must have an 'id' field"},
		{"airtable_update_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "records": `[{"id":"r"}]`}, "Record at index 0 must have a 'fields' object"},
		{"airtable_delete_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_ids": `"rec1"`}, "Record IDs must be an array of record ID strings"},
		{"airtable_delete_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_ids": `["rec1",""]`}, "Record ID at index 1 must be a non-empty string"},
		{"airtable_delete_multiple_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_ids": `[7]`}, "Record ID at index 0 must be a non-empty string"},
		{"airtable_update_record", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_id": "r", "fields": `"x"`}, "Fields must be a JSON object"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "fields": `{}`}, "Fields must be a JSON array"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "sort": `{}`}, "Sort must be a JSON array"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "sort": `[{"direction":"asc"}]`}, "Sort entry at index 0 must have a 'field' property"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "sort": `[{"field":"A","direction":"up"}]`}, "Sort direction at index 0 must be 'asc' or 'desc'"},
		{"airtable_list_records", map[string]any{"base_id": "a", "table_id_or_name": "t", "record_metadata": `"commentCount"`}, "Record metadata must be a JSON array"},
	}
	f := newFakeAirtable(t)
	h := f.handler()
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			env := callTool(t, h, tc.tool, tc.args)
			assertFailure(t, env, tc.want)
			if env.Error != tc.want {
				t.Errorf("error=%q want %q", env.Error, tc.want)
			}
		})
	}
	if n := len(f.seen()); n != 0 {
		t.Fatalf("saw %d requests", n)
	}
}

func recordIDs(n int) string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "rec" + strings.Repeat("x", i+1)
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

func TestDeleteMultipleRecords_Bounds(t *testing.T) {
	cases := []struct {
		n       int
		ok      bool
		wantErr string
	}{
		{0, false, "At least one record ID is required"},
		{1, true, ""},
		{10, true, ""},
		{11, false, "Maximum 10 records can be deleted at once"},
	}
	for _, tc := range cases {
		f := newFakeAirtable(t)
		env := callTool(t, f.handler(), "airtable_delete_multiple_records", map[string]any{
			"base_id": "app1", "table_id_or_name": "tbl1", "record_ids": recordIDs(tc.n),
		})
		reqs := f.seen()
		if !tc.ok {
			assertFailure(t, env, tc.wantErr)
			if len(reqs) != 0 {
				t.Errorf("n=%d: rejected input must not be forwarded", tc.n)
			}
			continue
		}
		if !env.Successful {
			t.Fatalf("n=%d: expected success, got %q", tc.n, env.Error)
		}
		if len(reqs) != 1 || reqs[0].method != http.MethodDelete {
			t.Fatalf("n=%d: expected one DELETE, got %+v", tc.n, reqs)
		}
		if got := len(reqs[0].query["records[]"]); got != tc.n {
			t.Errorf("n=%d: forwarded %d ids", tc.n, got)
		}
		if env.Data["requested_count"] != tc.n || env.Data["deleted_count"] != tc.n {
			t.Errorf("n=%d: counts %v/%v", tc.n, env.Data["requested_count"], env.Data["deleted_count"])
		}
	}
}

func TestCreateBase_AlwaysUnsuccessful(t *testing.T) {
	f := newFakeAirtable(t)
	env := callTool(t, f.handler(), "airtable_create_base", map[string]any{
		"name": "Test", "tables": `[{"name":"T","fields":[]}]`, "workspace_id": "wsp123",
	})
	if env.Successful {
		t.Fatal("create_base must report successful=false")
	}
	if env.Error != "" {
		t.Fatalf("create_base error should be empty, got %q", env.Error)
	}
	if env.Data["status"] != "configuration_validated" {
		t.Errorf("status = %v", env.Data["status"])
	}
	msg, _ := env.Data["message"].(string)
	if !strings.Contains(msg, "manually create the base") {
		t.Errorf("message should mention manual creation: %q", msg)
	}
	if env.Data["base_id"] != airtable.PlaceholderBaseID("Test") {
		t.Errorf("base_id = %v", env.Data["base_id"])
	}
	if env.Data["tables_count"] != 1 || env.Data["workspace_id"] != "wsp123" {
		t.Errorf("unexpected data: %v", env.Data)
	}
	if n := len(f.seen()); n != 0 {
		t.Errorf("create_base must not call the API, saw %d requests", n)
	}
}

func TestAPIErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		tool   string
		args   map[string]any
		want   []string
	}{
		{
			name: "invalid api key", status: http.StatusUnauthorized,
			body: `{"error":{"type":"INVALID_API_KEY","message":"bad key"}}`,
			tool: "airtable_list_bases",
			want: []string{"Airtable API Error: INVALID_API_KEY", "Please check your AIRTABLE_API_KEY"},
		},
		{
			name: "authentication required", status: http.StatusUnauthorized,
			body: `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"auth"}}`,
			tool: "airtable_get_user_info",
			want: []string{"AUTHENTICATION_REQUIRED", "Authentication failed. Please check your AIRTABLE_API_KEY."},
		},
		{
			name: "insufficient permissions", status: http.StatusForbidden,
			body: `{"error":{"type":"INSUFFICIENT_PERMISSIONS","message":"nope"}}`,
			tool: "airtable_list_records", args: map[string]any{"base_id": "app1", "table_id_or_name": "t"},
			want: []string{"Insufficient permissions to list records. Check your API key permissions."},
		},
		{
			name: "workspace not found", status: http.StatusNotFound,
			body: `{"error":{"type":"WORKSPACE_NOT_FOUND","message":"x"}}`,
			tool: "airtable_list_bases",
			want: []string{"The specified workspace was not found or you don't have access to it."},
		},
		{
			name: "unknown kind", status: http.StatusUnprocessableEntity,
			body: `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Field Age cannot accept text"}}`,
			tool: "airtable_create_record", args: map[string]any{"base_id": "app1", "table_id_or_name": "t", "fields": `{"Age":"x"}`},
			want: []string{"Airtable API Error: INVALID_VALUE_FOR_COLUMN\n\nUnexpected error: Field Age cannot accept text"},
		},
		{
			name: "string error code", status: http.StatusNotFound,
			body: `{"error":"NOT_FOUND"}`,
			tool: "airtable_get_record", args: map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "recX"},
			want: []string{"Airtable API Error: NOT_FOUND", "404 Not Found for url:"},
		},
		{
			name: "undecodable body", status: http.StatusBadGateway,
			body: `<html>bad gateway</html>`,
			tool: "airtable_get_base_schema", args: map[string]any{"base_id": "app1"},
			want: []string{"Airtable API Error: unknown_error", "502 Bad Gateway for url:"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeAirtable(t)
			f.fail(tc.status, tc.body)
			env := callTool(t, f.handler(), tc.tool, tc.args)
			for _, w := range tc.want {
				assertFailure(t, env, w)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	h := NewToolHandler(airtable.Options{APIKey: "patTEST", BaseURL: "http://" + addr + "/v0"})
	env := callTool(t, h, "airtable_list_bases", nil)
	assertFailure(t, env, "Airtable API Error: network_error")
	assertFailure(t, env, "Network connectivity issue. Please check your internet connection.")
}

func TestTimeoutError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	h := NewToolHandler(airtable.Options{APIKey: "patTEST", BaseURL: srv.URL + "/v0", Timeout: 50 * time.Millisecond})
	env := callTool(t, h, "airtable_get_user_info", nil)
	assertFailure(t, env, "Airtable API Error: timeout_error")
	assertFailure(t, env, "Request timed out.")
}

func TestMissingAPIKey(t *testing.T) {
	f := newFakeAirtable(t)
	h := NewToolHandler(airtable.Options{BaseURL: f.server.URL + "/v0"})

	// 参数校验先于客户端构造
	env := callTool(t, h, "airtable_get_base_schema", map[string]any{})
	assertFailure(t, env, "Base ID is required")

	env = callTool(t, h, "airtable_list_bases", nil)
	assertFailure(t, env, "Unexpected error: AIRTABLE_API_KEY environment variable is required")
	if n := len(f.seen()); n != 0 {
		t.Errorf("saw %d requests", n)
	}
}

func TestUpdateThenGetRoundTrip(t *testing.T) {
	f := newFakeAirtable(t)
	h := f.handler()

	created := callTool(t, h, "airtable_create_record", map[string]any{
		"base_id": "app1", "table_id_or_name": "Leads", "fields": `{"Name":"initial"}`,
	})
	if !created.Successful {
		t.Fatalf("create: %s", created.Error)
	}
	id, _ := created.Data["record_id"].(string)
	if id == "" {
		t.Fatalf("create returned no record_id: %v", created.Data)
	}

	updated := callTool(t, h, "airtable_update_record", map[string]any{
		"base_id": "app1", "table_id_or_name": "Leads", "record_id": id, "fields": `{"Name":"x"}`,
	})
	if !updated.Successful {
		t.Fatalf("update: %s", updated.Error)
	}

	got := callTool(t, h, "airtable_get_record", map[string]any{
		"base_id": "app1", "table_id_or_name": "Leads", "record_id": id,
	})
	if !got.Successful {
		t.Fatalf("get: %s", got.Error)
	}
	record, _ := got.Data["record"].(map[string]any)
	fields, _ := record["fields"].(map[string]any)
	if fields["Name"] != "x" {
		t.Fatalf("fields.Name = %v, want x", fields["Name"])
	}
	if got.Data["cell_format"] != "json" {
		t.Errorf("cell_format default = %v", got.Data["cell_format"])
	}
}

func TestSuccessEnvelopes(t *testing.T) {
	f := newFakeAirtable(t)
	h := f.handler()
	cases := []struct {
		tool  string
		args  map[string]any
		check func(t *testing.T, d map[string]any)
	}{
		{"airtable_get_user_info", nil, func(t *testing.T, d map[string]any) {
			if d["user_id"] != "usr1" || d["status"] != "user_info_retrieved" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_list_bases", nil, func(t *testing.T, d map[string]any) {
			if d["bases_count"] != 1 || d["offset"] != "" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_get_base_schema", map[string]any{"base_id": " app1 "}, func(t *testing.T, d map[string]any) {
			if d["tables_count"] != 1 || d["base_id"] != "app1" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_create_table", map[string]any{"base_id": "app1", "name": "Leads", "fields": `[{"name":"Name","type":"singleLineText"}]`}, func(t *testing.T, d map[string]any) {
			if d["table_id"] != "tblNEW" || d["fields_count"] != 1 {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_create_field", map[string]any{"base_id": "app1", "table_id": "tbl1", "name": "Notes"}, func(t *testing.T, d map[string]any) {
			if d["field_id"] != "fldNEW" || d["type"] != "singleLineText" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_create_multiple_records", map[string]any{"base_id": "app1", "table_id_or_name": "t", "records": `[{"fields":{"A":1}},{"fields":{"A":2}}]`}, func(t *testing.T, d map[string]any) {
			if d["created_records"] != 2 || d["message"] != "Successfully created 2 records" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_create_comment", map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "rec1", "text": " hello "}, func(t *testing.T, d map[string]any) {
			if d["comment_id"] != "com1" || d["text"] != "hello" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_list_comments", map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "rec1"}, func(t *testing.T, d map[string]any) {
			if d["comments_count"] != 1 {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_delete_comment", map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "rec1", "row_comment_id": "com1"}, func(t *testing.T, d map[string]any) {
			if d["status"] != "comment_deleted" || d["row_comment_id"] != "com1" {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_delete_record", map[string]any{"base_id": "app1", "table_id_or_name": "t", "record_id": "rec001"}, func(t *testing.T, d map[string]any) {
			rec, _ := d["deleted_record"].(map[string]any)
			if rec["deleted"] != true {
				t.Errorf("data=%v", d)
			}
		}},
		{"airtable_list_records", map[string]any{"base_id": "app1", "table_id_or_name": "t"}, func(t *testing.T, d map[string]any) {
			if d["page_size"] != airtable.DefaultPageSize || d["status"] != "records_retrieved" {
				t.Errorf("data=%v", d)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.tool, func(t *testing.T) {
			env := callTool(t, h, tc.tool, tc.args)
			if !env.Successful || env.Error != "" {
				t.Fatalf("expected success, got %+v", env)
			}
			tc.check(t, env.Data)
		})
	}
}

func TestUpdateMultipleRecords(t *testing.T) {
	f := newFakeAirtable(t)
	h := f.handler()
	created := callTool(t, h, "airtable_create_record", map[string]any{
		"base_id": "app1", "table_id_or_name": "t", "fields": `{"A":1}`,
	})
	id := created.Data["record_id"].(string)

	env := callTool(t, h, "airtable_update_multiple_records", map[string]any{
		"base_id": "app1", "table_id_or_name": "t",
		"records": `[{"id":"` + id + `","fields":{"A":2}}]`,
	})
	if !env.Successful {
		t.Fatalf("update multiple: %s", env.Error)
	}
	if env.Data["updated_records"] != 1 || env.Data["message"] != "Successfully updated 1 records" {
		t.Errorf("data=%v", env.Data)
	}
}

func TestListRecords_ForwardsOptions(t *testing.T) {
	f := newFakeAirtable(t)
	env := callTool(t, f.handler(), "airtable_list_records", map[string]any{
		"base_id":           "app1",
		"table_id_or_name":  "Leads",
		"cell_format":       "string",
		"fields":            `["Name","Email"]`,
		"filter_by_formula": "{Status}='Open'",
		"max_records":       5,
		"page_size":         20,
		"record_metadata":   `["commentCount"]`,
		"sort":              `[{"field":"Name","direction":"DESC"},{"field":"Email"}]`,
		"time_zone":         "Europe/Berlin",
		"user_locale":       "de",
		"view":              "Grid view",
	})
	if !env.Successful {
		t.Fatalf("list: %s", env.Error)
	}
	reqs := f.seen()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	q := reqs[0].query
	want := map[string]string{
		"cellFormat":         "string",
		"filterByFormula":    "{Status}='Open'",
		"maxRecords":         "5",
		"pageSize":           "20",
		"sort[0][field]":     "Name",
		"sort[0][direction]": "desc",
		"sort[1][field]":     "Email",
		"timeZone":           "Europe/Berlin",
		"userLocale":         "de",
		"view":               "Grid view",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s=%q want %q", k, got, v)
		}
	}
	if got := q["fields[]"]; len(got) != 2 || got[0] != "Name" || got[1] != "Email" {
		t.Errorf("fields[]=%v", got)
	}
	if _, ok := q["sort[1][direction]"]; ok {
		t.Error("sort[1][direction] should be omitted")
	}
	if env.Data["page_size"] != 20 {
		t.Errorf("page_size echo = %v", env.Data["page_size"])
	}
}

func TestCall_UnknownTool(t *testing.T) {
	h := NewToolHandler(airtable.Options{})
	_, err := h.Call(context.Background(), "airtable_drop_everything", nil)
	xe, ok := errors.As(err)
	if !ok || xe.Code != errors.CodeToolNotFound {
		t.Fatalf("expected %s, got %v", errors.CodeToolNotFound, err)
	}
}

func TestCall_InvalidArguments(t *testing.T) {
	h := NewToolHandler(airtable.Options{})
	_, err := h.Call(context.Background(), "airtable_list_records", json.RawMessage(`{"page_size":"big"}`))
	xe, ok := errors.As(err)
	if !ok || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected %s, got %v", errors.CodeCfgInvalid, err)
	}
}

func TestPanicRecovered(t *testing.T) {
	h := NewToolHandler(airtable.Options{})
	def := define(h, "airtable_boom", "panics", "explode", func(context.Context, struct{}) (map[string]any, error) {
		panic("kaboom")
	})
	env, err := def.call(context.Background(), nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	assertFailure(t, env, "Unexpected error: kaboom")
}

func TestToResult(t *testing.T) {
	res := toResult(failure("Base ID is required"))
	if !res.IsError {
		t.Error("IsError should be true when error is set")
	}
	res = toResult(Envelope{Data: map[string]any{"status": "configuration_validated"}})
	if res.IsError {
		t.Error("IsError should be false when error is empty")
	}
}
