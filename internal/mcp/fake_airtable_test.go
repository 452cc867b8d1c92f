package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/zx06/airtable-mcp/internal/airtable"
)

type seenRequest struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

// fakeAirtable 模拟 Airtable 数据 API 的记录读写，元数据端点返回固定内容。
type fakeAirtable struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	records  map[string]map[string]any
	requests []seenRequest
	nextID   int

	// failStatus 非零时所有请求都返回该状态码与 body
	failStatus int
	failBody   string
}

func newFakeAirtable(t *testing.T) *fakeAirtable {
	t.Helper()
	f := &fakeAirtable{t: t, records: map[string]map[string]any{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAirtable) options() airtable.Options {
	return airtable.Options{APIKey: "patTEST", BaseURL: f.server.URL + "/v0"}
}

func (f *fakeAirtable) handler() *ToolHandler {
	return NewToolHandler(f.options())
}

func (f *fakeAirtable) fail(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus, f.failBody = status, body
}

func (f *fakeAirtable) seen() []seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]seenRequest(nil), f.requests...)
}

func (f *fakeAirtable) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, seenRequest{method: r.Method, path: r.URL.Path, query: r.URL.Query(), body: body})

	if f.failStatus != 0 {
		w.WriteHeader(f.failStatus)
		_, _ = io.WriteString(w, f.failBody)
		return
	}

	segs := strings.Split(strings.TrimPrefix(r.URL.Path, "/v0/"), "/")
	if segs[0] == "meta" {
		f.serveMeta(w, r, segs[1:], body)
		return
	}

	switch {
	case len(segs) == 2 && r.Method == http.MethodPost:
		if recs, ok := body["records"].([]any); ok {
			out := make([]any, 0, len(recs))
			for _, rec := range recs {
				fields, _ := rec.(map[string]any)["fields"].(map[string]any)
				out = append(out, f.create(fields))
			}
			writeJSON(w, map[string]any{"records": out})
			return
		}
		fields, _ := body["fields"].(map[string]any)
		writeJSON(w, f.create(fields))
	case len(segs) == 2 && r.Method == http.MethodGet:
		out := make([]any, 0, len(f.records))
		for _, rec := range f.records {
			out = append(out, rec)
		}
		writeJSON(w, map[string]any{"records": out})
	case len(segs) == 2 && r.Method == http.MethodPatch:
		recs, _ := body["records"].([]any)
		out := make([]any, 0, len(recs))
		for _, item := range recs {
			rec := item.(map[string]any)
			id, _ := rec["id"].(string)
			fields, _ := rec["fields"].(map[string]any)
			if updated, ok := f.update(id, fields); ok {
				out = append(out, updated)
			}
		}
		writeJSON(w, map[string]any{"records": out})
	case len(segs) == 2 && r.Method == http.MethodDelete:
		out := make([]any, 0)
		for _, id := range r.URL.Query()["records[]"] {
			delete(f.records, id)
			out = append(out, map[string]any{"id": id, "deleted": true})
		}
		writeJSON(w, map[string]any{"records": out})
	case len(segs) == 3 && r.Method == http.MethodGet:
		rec, ok := f.records[segs[2]]
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, rec)
	case len(segs) == 3 && r.Method == http.MethodPatch:
		fields, _ := body["fields"].(map[string]any)
		rec, ok := f.update(segs[2], fields)
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, rec)
	case len(segs) == 3 && r.Method == http.MethodDelete:
		delete(f.records, segs[2])
		writeJSON(w, map[string]any{"id": segs[2], "deleted": true})
	case len(segs) == 4 && r.Method == http.MethodPost:
		writeJSON(w, map[string]any{"id": "com1", "text": body["text"]})
	case len(segs) == 4 && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"comments": []any{map[string]any{"id": "com1", "text": "hi"}}, "offset": nil})
	case len(segs) == 5 && r.Method == http.MethodDelete:
		writeJSON(w, map[string]any{"id": segs[4], "deleted": true})
	default:
		notFound(w)
	}
}

func (f *fakeAirtable) serveMeta(w http.ResponseWriter, r *http.Request, segs []string, body map[string]any) {
	switch {
	case len(segs) == 1 && segs[0] == "whoami":
		writeJSON(w, map[string]any{"id": "usr1", "scopes": []any{"data.records:read"}})
	case len(segs) == 1 && segs[0] == "bases":
		writeJSON(w, map[string]any{"bases": []any{map[string]any{"id": "app1", "name": "CRM"}}})
	case len(segs) == 3 && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"tables": []any{map[string]any{"id": "tbl1", "name": "Leads"}}})
	case len(segs) == 3 && r.Method == http.MethodPost:
		writeJSON(w, map[string]any{"id": "tblNEW", "name": body["name"], "fields": body["fields"]})
	case len(segs) == 5 && r.Method == http.MethodPost:
		writeJSON(w, map[string]any{"id": "fldNEW", "name": body["name"], "type": body["type"]})
	default:
		notFound(w)
	}
}

func (f *fakeAirtable) create(fields map[string]any) map[string]any {
	f.nextID++
	id := fmt.Sprintf("rec%03d", f.nextID)
	if fields == nil {
		fields = map[string]any{}
	}
	rec := map[string]any{"id": id, "createdTime": "2024-01-01T00:00:00.000Z", "fields": fields}
	f.records[id] = rec
	return rec
}

func (f *fakeAirtable) update(id string, fields map[string]any) (map[string]any, bool) {
	rec, ok := f.records[id]
	if !ok {
		return nil, false
	}
	existing := rec["fields"].(map[string]any)
	for k, v := range fields {
		existing[k] = v
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, `{"error":"NOT_FOUND"}`)
}
