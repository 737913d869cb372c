package models

// PageSize is the number of rows returned by list queries.
const PageSize = 10

// RecordFilter selects a page of records, newest first.
type RecordFilter struct {
	Page       int
	SearchTerm string
	// TypeFilter matches type_of_occurrence exactly; empty disables it.
	TypeFilter string
}

// AuditFilter selects a page of audit entries, newest first.
type AuditFilter struct {
	Page     int
	RecordID string
	Action   AuditAction
}

// Page is a paginated list response.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// NewPage fills the page metadata for total matching rows.
func NewPage[T any](data []T, total, page int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		TotalPages: (total + PageSize - 1) / PageSize,
	}
}

// Offset returns the row offset of a 1-based page number.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
