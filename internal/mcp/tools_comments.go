package mcp

import (
	"context"
	"strings"
)

func (h *ToolHandler) createComment(ctx context.Context, in CreateCommentInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.RecordID, "Record ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.Text, "Comment text is required"},
	); err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table, recordID := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName), strings.TrimSpace(in.RecordID)
	text := strings.TrimSpace(in.Text)
	resp, err := c.CreateComment(ctx, baseID, table, recordID, text)
	if err != nil {
		return nil, err
	}

	comment := unwrap(resp, "comment")
	return map[string]any{
		"comment":          comment,
		"comment_id":       stringOf(comment, "id"),
		"base_id":          baseID,
		"record_id":        recordID,
		"table_id_or_name": table,
		"text":             text,
		"status":           "comment_created",
		"message":          "Comment created successfully",
	}, nil
}

func (h *ToolHandler) listComments(ctx context.Context, in RecordInput) (map[string]any, error) {
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
	resp, err := c.ListComments(ctx, baseID, table, recordID)
	if err != nil {
		return nil, err
	}

	comments := listOf(resp, "comments")
	return map[string]any{
		"comments":         comments,
		"comments_count":   len(comments),
		"offset":           stringOf(resp, "offset"),
		"base_id":          baseID,
		"table_id_or_name": table,
		"record_id":        recordID,
		"status":           "comments_retrieved",
		"message":          "Comments retrieved successfully",
	}, nil
}

func (h *ToolHandler) deleteComment(ctx context.Context, in DeleteCommentInput) (map[string]any, error) {
	if err := checkRequired(
		required{in.BaseID, "Base ID is required"},
		required{in.TableIDOrName, "Table ID or name is required"},
		required{in.RecordID, "Record ID is required"},
		required{in.RowCommentID, "Row comment ID is required"},
	); err != nil {
		return nil, err
	}

	c, err := h.client()
	if err != nil {
		return nil, err
	}
	baseID, table, recordID := strings.TrimSpace(in.BaseID), strings.TrimSpace(in.TableIDOrName), strings.TrimSpace(in.RecordID)
	commentID := strings.TrimSpace(in.RowCommentID)
	resp, err := c.DeleteComment(ctx, baseID, table, recordID, commentID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"comment_deleted":  resp,
		"base_id":          baseID,
		"table_id_or_name": table,
		"record_id":        recordID,
		"row_comment_id":   commentID,
		"status":           "comment_deleted",
		"message":          "Comment deleted successfully",
	}, nil
}
