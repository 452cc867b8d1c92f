package mcp

// 所有字段均为 omitempty：缺失与空白都交给工具自身校验，返回统一的 envelope。

type CreateBaseInput struct {
	Name        string `json:"name,omitempty" jsonschema:"Name of the base to create (required)"`
	Tables      string `json:"tables,omitempty" jsonschema:"JSON string containing array of table objects with fields (required)"`
	WorkspaceID string `json:"workspace_id,omitempty" jsonschema:"Workspace ID where the base will be created (required)"`
}

type CreateCommentInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the record (required)"`
	RecordID      string `json:"record_id,omitempty" jsonschema:"The ID of the record to comment on (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table containing the record (required)"`
	Text          string `json:"text,omitempty" jsonschema:"The comment text to add (required)"`
}

type CreateFieldInput struct {
	BaseID      string         `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableID     string         `json:"table_id,omitempty" jsonschema:"The ID of the table to add the field to (required)"`
	Name        string         `json:"name,omitempty" jsonschema:"Name of the field to create (required)"`
	Type        string         `json:"type,omitempty" jsonschema:"Type of the field (defaults to singleLineText)"`
	Description string         `json:"description,omitempty" jsonschema:"Description of the field (optional)"`
	Options     map[string]any `json:"options,omitempty" jsonschema:"Field-specific options (optional)"`
}

type CreateMultipleRecordsInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table to add records to (required)"`
	Records       string `json:"records,omitempty" jsonschema:"JSON string containing array of record objects with fields (required)"`
}

type CreateRecordInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table to add the record to (required)"`
	Fields        string `json:"fields,omitempty" jsonschema:"JSON string containing field values object (required)"`
}

type CreateTableInput struct {
	BaseID      string `json:"base_id,omitempty" jsonschema:"The ID of the base to add the table to (required)"`
	Name        string `json:"name,omitempty" jsonschema:"Name of the table to create (required)"`
	Fields      string `json:"fields,omitempty" jsonschema:"JSON string containing array of field objects (required)"`
	Description string `json:"description,omitempty" jsonschema:"Description of the table (optional)"`
}

type BaseIDInput struct {
	BaseID string `json:"base_id,omitempty" jsonschema:"The ID of the base (required)"`
}

type GetRecordInput struct {
	BaseID                string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName         string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table containing the record (required)"`
	RecordID              string `json:"record_id,omitempty" jsonschema:"The ID of the record to retrieve (required)"`
	CellFormat            string `json:"cell_format,omitempty" jsonschema:"Format for cell values (defaults to json)"`
	ReturnFieldsByFieldID bool   `json:"return_fields_by_field_id,omitempty" jsonschema:"Return field names as IDs instead of names (defaults to false)"`
}

type RecordInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table containing the record (required)"`
	RecordID      string `json:"record_id,omitempty" jsonschema:"The ID of the record (required)"`
}

type DeleteMultipleRecordsInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table to delete records from (required)"`
	RecordIDs     string `json:"record_ids,omitempty" jsonschema:"JSON string containing array of record IDs to delete, 1 to 10 entries (required)"`
}

type DeleteCommentInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the record (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table containing the record (required)"`
	RecordID      string `json:"record_id,omitempty" jsonschema:"The ID of the record the comment belongs to (required)"`
	RowCommentID  string `json:"row_comment_id,omitempty" jsonschema:"The ID of the comment to delete (required)"`
}

type UpdateRecordInput struct {
	BaseID                string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName         string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table containing the record (required)"`
	RecordID              string `json:"record_id,omitempty" jsonschema:"The ID of the record to update (required)"`
	Fields                string `json:"fields,omitempty" jsonschema:"JSON string containing field values to update (required)"`
	ReturnFieldsByFieldID bool   `json:"return_fields_by_field_id,omitempty" jsonschema:"Return field names as IDs instead of names (defaults to false)"`
}

type UpdateMultipleRecordsInput struct {
	BaseID        string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table to update records in (required)"`
	Records       string `json:"records,omitempty" jsonschema:"JSON string containing array of record objects with id and fields (required)"`
}

type ListRecordsInput struct {
	BaseID                string `json:"base_id,omitempty" jsonschema:"The ID of the base containing the table (required)"`
	TableIDOrName         string `json:"table_id_or_name,omitempty" jsonschema:"The ID or name of the table to get records from (required)"`
	CellFormat            string `json:"cell_format,omitempty" jsonschema:"Format for cell values (defaults to json)"`
	Fields                string `json:"fields,omitempty" jsonschema:"JSON string containing array of field names to return (optional)"`
	FilterByFormula       string `json:"filter_by_formula,omitempty" jsonschema:"Formula to filter records (optional)"`
	MaxRecords            int    `json:"max_records,omitempty" jsonschema:"Maximum number of records to return (optional)"`
	Offset                string `json:"offset,omitempty" jsonschema:"Offset for pagination (optional)"`
	PageSize              int    `json:"page_size,omitempty" jsonschema:"Number of records per page (defaults to 100)"`
	RecordMetadata        string `json:"record_metadata,omitempty" jsonschema:"JSON string containing array of metadata fields (optional)"`
	ReturnFieldsByFieldID bool   `json:"return_fields_by_field_id,omitempty" jsonschema:"Return field names as IDs instead of names (defaults to false)"`
	Sort                  string `json:"sort,omitempty" jsonschema:"JSON string containing array of sort objects with field and direction asc or desc (optional)"`
	TimeZone              string `json:"time_zone,omitempty" jsonschema:"Time zone for date/time fields (defaults to utc)"`
	UserLocale            string `json:"user_locale,omitempty" jsonschema:"Locale for formatting (optional)"`
	View                  string `json:"view,omitempty" jsonschema:"View ID or name to filter by (optional)"`
}
