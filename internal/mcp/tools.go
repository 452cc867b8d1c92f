package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/log"
)

// ServerName is reported in the MCP initialize handshake.
const ServerName = "airtable-mcp"

// ToolHandler manages MCP tools
type ToolHandler struct {
	client func() (*airtable.Client, error)
	logger *slog.Logger
	tools  []toolDef
}

// toolDef 绑定一个工具的元数据、MCP 注册与直接调用入口。
type toolDef struct {
	tool     *mcp.Tool
	schema   *jsonschema.Schema
	register func(*mcp.Server)
	call     func(ctx context.Context, args json.RawMessage) (Envelope, error)
}

// NewToolHandler creates a new tool handler. The Airtable client is built
// on the first tool call that needs it, so a missing API key surfaces there.
func NewToolHandler(opts airtable.Options) *ToolHandler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	h := &ToolHandler{logger: logger}
	h.client = sync.OnceValues(func() (*airtable.Client, error) {
		c, xe := airtable.New(opts)
		if xe != nil {
			return nil, xe
		}
		return c, nil
	})
	h.tools = h.catalog()
	return h
}

// catalog 声明全部工具；顺序即 tool list 的输出顺序。
func (h *ToolHandler) catalog() []toolDef {
	return []toolDef{
		define(h, "airtable_create_base",
			"Create base. Creates a new airtable base with specified tables and fields within a workspace; ensure field options are valid for their type.",
			"create bases", h.createBase, validateOnly(), writeHints()),
		define(h, "airtable_create_comment",
			"Create Comment. Creates a new comment on a specific record within an airtable base and table.",
			"create comments", h.createComment, writeHints()),
		define(h, "airtable_create_field",
			"Create Field. Creates a new field within a specified table in an airtable base.",
			"create fields", h.createField, writeHints()),
		define(h, "airtable_create_multiple_records",
			"Create multiple records. Creates multiple new records in a specified airtable table.",
			"create records", h.createMultipleRecords, writeHints()),
		define(h, "airtable_create_record",
			"Create a record. Creates a new record in a specified airtable table; field values must conform to the table's column types.",
			"create records", h.createRecord, writeHints()),
		define(h, "airtable_create_table",
			"Create table. Creates a new table within a specified existing airtable base, allowing definition of its name, description, and field structure.",
			"create tables", h.createTable, writeHints()),
		define(h, "airtable_get_base_schema",
			"Get base schema. Retrieves the schema for all tables in a specified airtable base.",
			"read base schemas", h.getBaseSchema, readOnlyHints()),
		define(h, "airtable_get_record",
			"Get Record. Retrieves a specific record from a table within an airtable base.",
			"read records", h.getRecord, withCellFormatEnum(), readOnlyHints()),
		define(h, "airtable_get_user_info",
			"Get user information. Retrieves information, such as ID and permission scopes, for the currently authenticated airtable user.",
			"read user information", h.getUserInfo, readOnlyHints()),
		define(h, "airtable_list_bases",
			"List bases. Retrieves all airtable bases accessible to the authenticated user.",
			"list bases", h.listBases, readOnlyHints()),
		define(h, "airtable_list_comments",
			"List comments. Retrieves all comments for a specific record in an airtable table.",
			"read comments", h.listComments, readOnlyHints()),
		define(h, "airtable_delete_record",
			"Delete record. Permanently deletes a specific record from an existing table within an existing airtable base.",
			"delete records", h.deleteRecord, destructiveHints()),
		define(h, "airtable_delete_multiple_records",
			"Delete multiple records. Deletes up to 10 specified records from a table within an airtable base.",
			"delete records", h.deleteMultipleRecords, destructiveHints()),
		define(h, "airtable_delete_comment",
			"Delete comment. Deletes an existing comment from a specified record in an airtable table.",
			"delete comments", h.deleteComment, destructiveHints()),
		define(h, "airtable_update_record",
			"Update record. Modifies specified fields of an existing record in an airtable base and table.",
			"update records", h.updateRecord, updateHints()),
		define(h, "airtable_update_multiple_records",
			"Update multiple records. Updates multiple existing records in a specified airtable table; these updates are not performed atomically.",
			"update records", h.updateMultipleRecords, updateHints()),
		define(h, "airtable_list_records",
			"List records. Retrieves records from an airtable table, with options for filtering, sorting, pagination, and specifying returned fields.",
			"list records", h.listRecords, withCellFormatEnum(), readOnlyHints()),
	}
}

type defineConfig struct {
	// validateOnly 工具即使成功也返回 successful=false（CreateBase 不会真正创建）
	validateOnly bool
	schema       func(*jsonschema.Schema)
	annotations  *mcp.ToolAnnotations
}

type defineOption func(*defineConfig)

func validateOnly() defineOption {
	return func(c *defineConfig) { c.validateOnly = true }
}

func boolPtr(b bool) *bool {
	return &b
}

func readOnlyHints() defineOption {
	return func(c *defineConfig) {
		c.annotations = &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true, OpenWorldHint: boolPtr(true)}
	}
}

func writeHints() defineOption {
	return func(c *defineConfig) {
		c.annotations = &mcp.ToolAnnotations{DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(true)}
	}
}

// updateHints 覆盖已有字段值，但同样的输入重复执行结果一致。
func updateHints() defineOption {
	return func(c *defineConfig) {
		c.annotations = &mcp.ToolAnnotations{DestructiveHint: boolPtr(true), IdempotentHint: true, OpenWorldHint: boolPtr(true)}
	}
}

func destructiveHints() defineOption {
	return func(c *defineConfig) {
		c.annotations = &mcp.ToolAnnotations{DestructiveHint: boolPtr(true), OpenWorldHint: boolPtr(true)}
	}
}

func withCellFormatEnum() defineOption {
	return func(c *defineConfig) {
		c.schema = func(s *jsonschema.Schema) {
			if p, ok := s.Properties["cell_format"]; ok {
				p.Enum = []any{"json", "string"}
			}
		}
	}
}

// define 把类型化的工具函数包装成 toolDef：统一校验、错误映射、panic 恢复。
func define[In any](h *ToolHandler, name, description, action string, run func(context.Context, In) (map[string]any, error), opts ...defineOption) toolDef {
	var cfg defineConfig
	for _, o := range opts {
		o(&cfg)
	}

	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema for %s: %v", name, err))
	}
	if cfg.schema != nil {
		cfg.schema(schema)
	}
	tool := &mcp.Tool{Name: name, Description: description, InputSchema: schema, Annotations: cfg.annotations}

	invoke := func(ctx context.Context, in In) (env Envelope) {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("tool panic", "tool", name, "panic", r)
				env = failure(fmt.Sprintf("Unexpected error: %v", r))
			}
		}()
		data, err := run(ctx, in)
		if err != nil {
			h.logger.Debug("tool call", "tool", name, "successful", false, "error_kind", errorKind(err))
			return errorEnvelope(err, action)
		}
		env = success(data)
		if cfg.validateOnly {
			env.Successful = false
		}
		h.logger.Debug("tool call", "tool", name, "successful", env.Successful)
		return env
	}

	return toolDef{
		tool:   tool,
		schema: schema,
		register: func(server *mcp.Server) {
			mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
				return toResult(invoke(ctx, in)), nil, nil
			})
		},
		call: func(ctx context.Context, args json.RawMessage) (Envelope, error) {
			var in In
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return Envelope{}, errors.Wrap(errors.CodeCfgInvalid, "invalid tool arguments", map[string]any{"tool": name}, err)
				}
			}
			return invoke(ctx, in), nil
		},
	}
}

// toResult 把 envelope 序列化为单个 TextContent。
func toResult(env Envelope) *mcp.CallToolResult {
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		b, _ = json.MarshalIndent(failure("Unexpected error: "+err.Error()), "", "  ")
	}
	return &mcp.CallToolResult{
		IsError: env.Error != "",
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// RegisterTools registers all tools with the MCP server
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	for _, t := range h.tools {
		t.register(server)
	}
}

// ToolInfo 是 tool list 输出的一项。
type ToolInfo struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema,omitempty" yaml:"-"`
}

// Tools 返回全部工具元数据。
func (h *ToolHandler) Tools() []ToolInfo {
	out := make([]ToolInfo, 0, len(h.tools))
	for _, t := range h.tools {
		out = append(out, ToolInfo{Name: t.tool.Name, Description: t.tool.Description, InputSchema: t.schema})
	}
	return out
}

// Call 不经 MCP 协议直接调用工具，供 CLI 使用。
func (h *ToolHandler) Call(ctx context.Context, name string, args json.RawMessage) (Envelope, error) {
	for _, t := range h.tools {
		if t.tool.Name == name {
			return t.call(ctx, args)
		}
	}
	names := make([]string, 0, len(h.tools))
	for _, t := range h.tools {
		names = append(names, t.tool.Name)
	}
	sort.Strings(names)
	return Envelope{}, errors.New(errors.CodeToolNotFound, "tool does not exist", map[string]any{"name": name, "available": names})
}

// CreateServer creates a new MCP server
func CreateServer(version string, opts airtable.Options) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	handler := NewToolHandler(opts)
	handler.RegisterTools(server)

	return server, nil
}
