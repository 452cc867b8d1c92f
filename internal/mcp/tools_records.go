package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/zx06/airtable-mcp/internal/airtable"
)

// maxDeleteBatch 是 Airtable 单次批量删除的上限。
const maxDeleteBatch = 10

func (h *ToolHandler) createRecord(ctx context.Context, in CreateRecordInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.Fields, "Fields data is required"},
	); err != nil {
		return nil, err
	}
	fields, err := decodeObject("fields", in.Fields, "Fields must be a JSON object")
	if err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName)
	resp, err := c.CreateRecord(ctx, baseID, table, fields)
	if err != nil {
		return nil, err
	}

	record := unwrap(resp, "record")
	return map[string]any{
		"record":           record,
		"record_id":        stringOf(record, "id"),
		"base_id":          baseID,
		"table_id_or_name": table,
		"fields":           fields,
		"status":           "record_created",
		"message":          "Record created successfully",
	}, nil
}

func (h *ToolHandler) createMultipleRecords(ctx context.Context, in CreateMultipleRecordsInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.Records, "Records data is required"},
	); err != nil {
		return nil, err
	}
	items, err := decodeArray("records", in.Records, "Records must be an array of record objects")
	if err != nil {
		return nil, err
	}
	records, err := objectsWithKeys(items, "Record at index %d must have 'fields' property", "fields")
	if err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName)
	resp, err := c.CreateMultipleRecords(ctx, baseID, table, records)
	if err != nil {
		return nil, err
	}

	created := listOf(resp, "records")
	return map[string]any{
		"records":          created,
		"created_records":  len(created),
		"base_id":          baseID,
		"table_id_or_name": table,
		"status":           "records_created",
		"message":          fmt.Sprintf("Successfully created %d records", len(created)),
	}, nil
}

func (h *ToolHandler) getRecord(ctx context.Context, in GetRecordInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.RecordID, "Record ID is required"},
	); err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table, recordID := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName), strings.TrimSpace(in.RecordID)
	cellFormat := strings.TrimSpace(in.CellFormat)
	if cellFormat == "" {
		cellFormat = airtable.DefaultCellFormat
	}
	resp, err := c.GetRecord(ctx, baseID, table, recordID, airtable.RecordOptions{
		CellFormat:            cellFormat,
		ReturnFieldsByFieldID: in.ReturnFieldsByFieldID,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"record":                    unwrap(resp, "record"),
		"base_id":                   baseID,
		"table_id_or_name":          table,
		"record_id":                 recordID,
		"cell_format":               cellFormat,
		"return_fields_by_field_id": in.ReturnFieldsByFieldID,
		"status":                    "record_retrieved",
		"message":                   "Record retrieved successfully",
	}, nil
}

func (h *ToolHandler) updateRecord(ctx context.Context, in UpdateRecordInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.RecordID, "Record ID is required"},
		required{in.Fields, "Fields data is required"},
	); err != nil {
		return nil, err
	}
	fields, err := decodeObject("fields", in.Fields, "Fields must be a JSON object")
	if err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table, recordID := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName), strings.TrimSpace(in.RecordID)
	resp, err := c.UpdateRecord(ctx, baseID, table, recordID, fields, in.ReturnFieldsByFieldID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"record":                    unwrap(resp, "record"),
		"record_id":                 recordID,
		"base_id":                   baseID,
		"table_id_or_name":          table,
		"fields":                    fields,
		"return_fields_by_field_id": in.ReturnFieldsByFieldID,
		"status":                    "record_updated",
		"message":                   "Record updated successfully",
	}, nil
}

func (h *ToolHandler) updateMultipleRecords(ctx context.Context, in UpdateMultipleRecordsInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.Records, "Records data is required"},
	); err != nil {
		return nil, err
	}
	items, err := decodeArray("records", in.Records, "Records must be an array of record objects")
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("Record at index %d must be an object", i)
		}
		if _, ok := rec["id"]; !ok {
			return nil, invalid("Record at index %d must have an 'id' field", i)
		}
		if _, ok := rec["fields"]; !ok {
			return nil, invalid("Record at index %d must have a 'fields' object", i)
		}
		records = append(records, rec)
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName)
	resp, err := c.UpdateMultipleRecords(ctx, baseID, table, records)
	if err != nil {
		return nil, err
	}

	updated := listOf(resp, "records")
	return map[string]any{
		"records":          updated,
		"updated_records":  len(updated),
		"base_id":          baseID,
		"table_id_or_name": table,
		"status":           "records_updated",
		"message":          fmt.Sprintf("Successfully updated %d records", len(updated)),
	}, nil
}

func (h *ToolHandler) deleteRecord(ctx context.Context, in RecordInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.RecordID, "Record ID is required"},
	); err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table, recordID := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName), strings.TrimSpace(in.RecordID)
	resp, err := c.DeleteRecord(ctx, baseID, table, recordID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"deleted_record":   unwrap(resp, "record"),
		"record_id":        recordID,
		"base_id":          baseID,
		"table_id_or_name": table,
		"status":           "record_deleted",
		"message":          "Record deleted successfully",
	}, nil
}

func (h *ToolHandler) deleteMultipleRecords(ctx context.Context, in DeleteMultipleRecordsInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.RecordIDs, "Record IDs are required"},
	); err != nil {
		return nil, err
	}
	items, err := decodeArray("record_ids", in.RecordIDs, "Record IDs must be an array of record ID strings")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, invalid("At least one record ID is required")
	}
	if len(items) > maxDeleteBatch {
		return nil, invalid("Maximum %d records can be deleted at once", maxDeleteBatch)
	}
	ids := make([]string, 0, len(items))
	for i, item := range items {
		id, ok := item.(string)
		if !ok || strings.TrimSpace(id) == "" {
			return nil, invalid("Record ID at index %d must be a non-empty string", i)
		}
		ids = append(ids, strings.TrimSpace(id))
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName)
	resp, err := c.DeleteMultipleRecords(ctx, baseID, table, ids)
	if err != nil {
		return nil, err
	}

	deleted := listOf(resp, "records")
	return map[string]any{
		"deleted_records":  deleted,
		"deleted_count":    len(deleted),
		"requested_count":  len(ids),
		"base_id":          baseID,
		"table_id_or_name": table,
		"record_ids":       ids,
		"status":           "records_deleted",
		"message":          fmt.Sprintf("Successfully deleted %d records", len(deleted)),
	}, nil
}

func (h *ToolHandler) listRecords(ctx context.Context, in ListRecordsInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
	); err != nil {
		return nil, err
	}

	opts := airtable.ListRecordsOptions{
		CellFormat:            strings.TrimSpace(in.CellFormat),
		FilterByFormula:       strings.TrimSpace(in.FilterByFormula),
		MaxRecords:            in.MaxRecords,
		Offset:                strings.TrimSpace(in.Offset),
		PageSize:              in.PageSize,
		ReturnFieldsByFieldID: in.ReturnFieldsByFieldID,
		TimeZone:              strings.TrimSpace(in.TimeZone),
		UserLocale:            strings.TrimSpace(in.UserLocale),
		View:                  strings.TrimSpace(in.View),
	}
	if opts.PageSize <= 0 {
		opts.PageSize = airtable.DefaultPageSize
	}
	if strings.TrimSpace(in.Fields) != "" {
		items, err := decodeArray("fields", in.Fields, "Fields must be a JSON array")
		if err != nil {
			return nil, err
		}
		opts.Fields = stringList(items)
	}
	if strings.TrimSpace(in.Sort) != "" {
		items, err := decodeArray("sort", in.Sort, "Sort must be a JSON array")
		if err != nil {
			return nil, err
		}
		sorts, err := parseSort(items)
		if err != nil {
			return nil, err
		}
		opts.Sort = sorts
	}
	if strings.TrimSpace(in.RecordMetadata) != "" {
		items, err := decodeArray("record_metadata", in.RecordMetadata, "Record metadata must be a JSON array")
		if err != nil {
			return nil, err
		}
		opts.RecordMetadata = stringList(items)
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName)
	resp, err := c.ListRecords(ctx, baseID, table, opts)
	if err != nil {
		return nil, err
	}

	records := listOf(resp, "records")
	return map[string]any{
		"records":          records,
		"records_count":    len(records),
		"offset":           stringOf(resp, "offset"),
		"base_id":          baseID,
		"table_id_or_name": table,
		"page_size":        opts.PageSize,
		"status":           "records_retrieved",
		"message":          "Records retrieved successfully",
	}, nil
}

func parseSort(items []any) ([]airtable.SortSpec, error) {
	out := make([]airtable.SortSpec, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("Sort entry at index %d must have a 'field' property", i)
		}
		field, _ := obj["field"].(string)
		if strings.TrimSpace(field) == "" {
			return nil, invalid("Sort entry at index %d must have a 'field' property", i)
		}
		spec := airtable.SortSpec{Field: field}
		if raw, present := obj["direction"]; present {
			dir, _ := raw.(string)
			dir = strings.ToLower(strings.TrimSpace(dir))
			if dir != "asc" && dir != "desc" {
				return nil, invalid("Sort direction at index %d must be 'asc' or 'desc'", i)
			}
			spec.Direction = dir
		}
		out = append(out, spec)
	}
	return out, nil
}
