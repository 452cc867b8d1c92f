package airtable

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strconv"
)

// BaseCreationMessage is returned by CreateBase in place of a real creation result.
const BaseCreationMessage = "Base configuration validated successfully. Note: Airtable API does not support programmatic base creation. This configuration can be used to manually create the base in the Airtable interface."

const (
	DefaultCellFormat = "json"
	DefaultTimeZone   = "utc"
	DefaultPageSize   = 100
)

// optionFieldTypes lists the field types for which CreateField forwards options.
var optionFieldTypes = map[string]bool{
	"singleSelect": true, "multipleSelects": true, "number": true, "date": true,
	"dateTime": true, "checkbox": true, "rating": true, "currency": true,
	"percent": true, "phoneNumber": true, "email": true, "url": true,
	"multilineText": true, "richText": true, "attachment": true, "barcode": true,
	"rollup": true, "lookup": true, "formula": true, "button": true,
	"autoNumber": true, "createdTime": true, "lastModifiedTime": true,
	"createdBy": true, "lastModifiedBy": true,
}

// FieldSpec 描述 CreateField 的请求体。
type FieldSpec struct {
	Name        string
	Type        string
	Description string
	Options     map[string]any
}

// TableSpec 描述 CreateTable 的请求体。
type TableSpec struct {
	Name        string
	Description string
	Fields      []map[string]any
}

// RecordOptions 是单条记录读写的可选查询参数。
type RecordOptions struct {
	CellFormat            string
	ReturnFieldsByFieldID bool
}

// SortSpec is one entry of a list-records sort.
type SortSpec struct {
	Field     string
	Direction string // asc | desc，空表示服务端默认
}

// ListRecordsOptions holds every optional list-records parameter. Zero values
// and documented defaults are left off the query string.
type ListRecordsOptions struct {
	CellFormat            string
	Fields                []string
	FilterByFormula       string
	MaxRecords            int
	Offset                string
	PageSize              int
	RecordMetadata        []string
	ReturnFieldsByFieldID bool
	Sort                  []SortSpec
	TimeZone              string
	UserLocale            string
	View                  string
}

func (o RecordOptions) query() url.Values {
	q := url.Values{}
	if o.CellFormat != "" && o.CellFormat != DefaultCellFormat {
		q.Set("cellFormat", o.CellFormat)
	}
	if o.ReturnFieldsByFieldID {
		q.Set("returnFieldsByFieldId", "true")
	}
	return q
}

func (o ListRecordsOptions) query() url.Values {
	q := RecordOptions{CellFormat: o.CellFormat, ReturnFieldsByFieldID: o.ReturnFieldsByFieldID}.query()
	for _, f := range o.Fields {
		q.Add("fields[]", f)
	}
	if o.FilterByFormula != "" {
		q.Set("filterByFormula", o.FilterByFormula)
	}
	if o.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(o.MaxRecords))
	}
	if o.Offset != "" {
		q.Set("offset", o.Offset)
	}
	if o.PageSize > 0 && o.PageSize != DefaultPageSize {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	for _, m := range o.RecordMetadata {
		q.Add("recordMetadata[]", m)
	}
	for i, s := range o.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			q.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
	}
	if o.TimeZone != "" && o.TimeZone != DefaultTimeZone {
		q.Set("timeZone", o.TimeZone)
	}
	if o.UserLocale != "" {
		q.Set("userLocale", o.UserLocale)
	}
	if o.View != "" {
		q.Set("view", o.View)
	}
	return q
}

// PlaceholderBaseID derives the stable identifier CreateBase reports for name.
func PlaceholderBaseID(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf("app%d", h.Sum32()%1000000)
}

// CreateBase does not contact Airtable: the public API has no base creation
// endpoint. It returns a placeholder base and BaseCreationMessage.
func (c *Client) CreateBase(ctx context.Context, name string, tables []map[string]any, workspaceID string) (map[string]any, error) {
	return map[string]any{
		"base": map[string]any{
			"id":              PlaceholderBaseID(name),
			"name":            name,
			"permissionLevel": "create",
		},
		"message": BaseCreationMessage,
	}, nil
}

func (c *Client) CreateComment(ctx context.Context, baseID, tableIDOrName, recordID, text string) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, dataPath(baseID, tableIDOrName, recordID, "comments"), nil, map[string]any{"text": text})
}

func (c *Client) CreateField(ctx context.Context, baseID, tableID string, field FieldSpec) (map[string]any, error) {
	payload := map[string]any{
		"name": field.Name,
		"type": field.Type,
	}
	if field.Description != "" {
		payload["description"] = field.Description
	}
	if len(field.Options) > 0 && optionFieldTypes[field.Type] {
		payload["options"] = field.Options
	}
	return c.do(ctx, http.MethodPost, metaPath("bases", baseID, "tables", tableID, "fields"), nil, payload)
}

func (c *Client) CreateMultipleRecords(ctx context.Context, baseID, tableIDOrName string, records []map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, dataPath(baseID, tableIDOrName), nil, map[string]any{"records": records})
}

func (c *Client) CreateRecord(ctx context.Context, baseID, tableIDOrName string, fields map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, dataPath(baseID, tableIDOrName), nil, map[string]any{"fields": fields})
}

func (c *Client) CreateTable(ctx context.Context, baseID string, table TableSpec) (map[string]any, error) {
	payload := map[string]any{
		"name":   table.Name,
		"fields": table.Fields,
	}
	if table.Description != "" {
		payload["description"] = table.Description
	}
	return c.do(ctx, http.MethodPost, metaPath("bases", baseID, "tables"), nil, payload)
}

func (c *Client) GetBaseSchema(ctx context.Context, baseID string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, metaPath("bases", baseID, "tables"), nil, nil)
}

func (c *Client) GetRecord(ctx context.Context, baseID, tableIDOrName, recordID string, opts RecordOptions) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, dataPath(baseID, tableIDOrName, recordID), opts.query(), nil)
}

func (c *Client) GetUserInfo(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, metaPath("whoami"), nil, nil)
}

func (c *Client) ListBases(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, metaPath("bases"), nil, nil)
}

func (c *Client) ListComments(ctx context.Context, baseID, tableIDOrName, recordID string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, dataPath(baseID, tableIDOrName, recordID, "comments"), nil, nil)
}

func (c *Client) DeleteComment(ctx context.Context, baseID, tableIDOrName, recordID, rowCommentID string) (map[string]any, error) {
	return c.do(ctx, http.MethodDelete, dataPath(baseID, tableIDOrName, recordID, "comments", rowCommentID), nil, nil)
}

func (c *Client) DeleteRecord(ctx context.Context, baseID, tableIDOrName, recordID string) (map[string]any, error) {
	return c.do(ctx, http.MethodDelete, dataPath(baseID, tableIDOrName, recordID), nil, nil)
}

// DeleteMultipleRecords sends the IDs as repeated records[] query parameters;
// Airtable does not accept a body on bulk delete.
func (c *Client) DeleteMultipleRecords(ctx context.Context, baseID, tableIDOrName string, recordIDs []string) (map[string]any, error) {
	q := url.Values{}
	for _, id := range recordIDs {
		q.Add("records[]", id)
	}
	return c.do(ctx, http.MethodDelete, dataPath(baseID, tableIDOrName), q, nil)
}

func (c *Client) UpdateRecord(ctx context.Context, baseID, tableIDOrName, recordID string, fields map[string]any, returnFieldsByFieldID bool) (map[string]any, error) {
	q := RecordOptions{ReturnFieldsByFieldID: returnFieldsByFieldID}.query()
	return c.do(ctx, http.MethodPatch, dataPath(baseID, tableIDOrName, recordID), q, map[string]any{"fields": fields})
}

func (c *Client) UpdateMultipleRecords(ctx context.Context, baseID, tableIDOrName string, records []map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPatch, dataPath(baseID, tableIDOrName), nil, map[string]any{"records": records})
}

func (c *Client) ListRecords(ctx context.Context, baseID, tableIDOrName string, opts ListRecordsOptions) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, dataPath(baseID, tableIDOrName), opts.query(), nil)
}
