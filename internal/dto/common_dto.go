package dto

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ChangeSet is the caller-supplied before/after snapshot attached to update
// audit records. The service validates its shape but never computes diffs
// itself.
type ChangeSet struct {
	Before map[string]interface{} `json:"before"`
	After  map[string]interface{} `json:"after"`
}
