package mcp

import (
	"context"
	"strings"

	"github.com/zx06/airtable-mcp/internal/airtable"
)

const defaultFieldType = "singleLineText"

func (h *ToolHandler) createBase(ctx context.Context, in CreateBaseInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.Name, "Base name is required"},
		required{in.WorkspaceID, "Workspace ID is required"},
		required{in.Tables, "Tables configuration is required"},
	); err != nil {
		return nil, err
	}
	items, err := decodeArray("tables", in.Tables, "Tables must be an array of table objects")
	if err != nil {
		return nil, err
	}
	tables, err := objectsWithKeys(items, "Table at index %d must have 'name' and 'fields' properties", "name", "fields")
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	workspaceID := strings.TrimSpace(in.WorkspaceID)
	c, err := h.client()
	if err != nil {
		return nil, err
	}
	resp, err := c.CreateBase(ctx, name, tables, workspaceID)
	if err != nil {
		return nil, err
	}

	base := unwrap(resp, "base")
	return map[string]any{
		"base":         base,
		"base_id":      stringOf(base, "id"),
		"base_name":    stringOf(base, "name"),
		"workspace_id": workspaceID,
		"tables_count": len(tables),
		"status":       "configuration_validated",
		"message":      airtable.BaseCreationMessage,
		"creation_details": map[string]any{
			"name":                name,
			"workspace_id":        workspaceID,
			"tables":              tables,
			"creation_successful": false,
			"api_limitation":      "Airtable API does not support programmatic base creation",
			"manual_required":     true,
		},
	}, nil
}

func (h *ToolHandler) createTable(ctx context.Context, in CreateTableInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.Name, "Table name is required"},
		required{in.Fields, "Fields data is required"},
	); err != nil {
		return nil, err
	}
	items, err := decodeArray("fields", in.Fields, "Fields must be an array of field objects")
	if err != nil {
		return nil, err
	}
	fields, err := objectsWithKeys(items, "Field at index %d must have 'name' and 'type' properties", "name", "type")
	if err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID := strings.TrimSpace(in.BaseID)
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	resp, err := c.CreateTable(ctx, baseID, airtable.TableSpec{Name: name, Description: description, Fields: fields})
	if err != nil {
		return nil, err
	}

	table := unwrap(resp, "table")
	return map[string]any{
		"table":        table,
		"table_id":     stringOf(table, "id"),
		"base_id":      baseID,
		"name":         name,
		"description":  description,
		"fields_count": len(fields),
		"status":       "table_created",
		"message":      "Table created successfully",
	}, nil
}

func (h *ToolHandler) createField(ctx context.Context, in CreateFieldInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableID, "Table ID is required"},
		required{in.Name, "Field name is required"},
	); err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	spec := airtable.FieldSpec{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		Options:     in.Options,
	}
	if spec.Type == "" {
		spec.Type = defaultFieldType
	}
	if spec.Options == nil {
		spec.Options = map[string]any{}
	}
	baseID := strings.TrimSpace(in.BaseID)
	tableID := strings.TrimSpace(in.TableID)
	resp, err := c.CreateField(ctx, baseID, tableID, spec)
	if err != nil {
		return nil, err
	}

	field := unwrap(resp, "field")
	return map[string]any{
		"field":       field,
		"field_id":    stringOf(field, "id"),
		"base_id":     baseID,
		"table_id":    tableID,
		"name":        spec.Name,
		"type":        spec.Type,
		"description": spec.Description,
		"options":     spec.Options,
		"status":      "field_created",
		"message":     "Field created successfully",
	}, nil
}

func (h *ToolHandler) getBaseSchema(ctx context.Context, in BaseIDInput) (map[string]any, error) {
	if err := checkRequired(required{in.BaseID, "Base ID is required"}); err != nil {
		return nil, err
	}
	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID := strings.TrimSpace(in.BaseID)
	resp, err := c.GetBaseSchema(ctx, baseID)
	if err != nil {
		return nil, err
	}
	tables := listOf(resp, "tables")
	return map[string]any{
		"schema":       resp,
		"base_id":      baseID,
		"tables":       tables,
		"tables_count": len(tables),
		"status":       "schema_retrieved",
		"message":      "Base schema retrieved successfully",
	}, nil
}

func (h *ToolHandler) getUserInfo(ctx context.Context, _ struct{}) (map[string]any, error) {
	c, err := h.client()
	if err != nil {
		return nil, err
	}
	user, err := c.GetUserInfo(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user":    user,
		"user_id": stringOf(user, "id"),
		"scopes":  listOf(user, "scopes"),
		"status":  "user_info_retrieved",
		"message": "User information retrieved successfully",
	}, nil
}

func (h *ToolHandler) listBases(ctx context.Context, _ struct{}) (map[string]any, error) {
	c, err := h.client()
	if err != nil {
		return nil, err
	}
	resp, err := c.ListBases(ctx)
	if err != nil {
		return nil, err
	}
	bases := listOf(resp, "bases")
	return map[string]any{
		"bases":       bases,
		"bases_count": len(bases),
		"offset":      stringOf(resp, "offset"),
		"status":      "bases_retrieved",
		"message":     "Bases retrieved successfully",
	}, nil
}
