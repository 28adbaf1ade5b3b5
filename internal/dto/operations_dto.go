package dto

import (
	"time"

	"github.com/atlasworks/atlas-api/internal/models"
)

// TaskRequest captures create payloads for staff tasks.
type TaskRequest struct {
	Title      string     `json:"title" validate:"required,min=3"`
	Details    string     `json:"details" validate:"omitempty,max=4000"`
	Status     string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID *uint      `json:"assignee_id"`
	ProjectID  *uint      `json:"project_id"`
	DueAt      *time.Time `json:"due_at"`
}

// TaskUpdateRequest patches a task; nil fields are left untouched.
type TaskUpdateRequest struct {
	Title      *string    `json:"title" validate:"omitempty,min=3"`
	Details    *string    `json:"details" validate:"omitempty,max=4000"`
	Status     *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID *uint      `json:"assignee_id"`
	ProjectID  *uint      `json:"project_id"`
	DueAt      *time.Time `json:"due_at"`
	Changes    *ChangeSet `json:"changes"`
}

// TaskListRequest filters task listings.
type TaskListRequest struct {
	Page       int
	PageSize   int
	Status     string
	AssigneeID uint
}

// TaskResponse serializes a task.
type TaskResponse struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Details    string     `json:"details"`
	Status     string     `json:"status"`
	AssigneeID *uint      `json:"assignee_id"`
	ProjectID  *uint      `json:"project_id"`
	DueAt      *time.Time `json:"due_at"`
	CreatedBy  uint       `json:"created_by"`
	UpdatedBy  uint       `json:"updated_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TaskListResponse wraps a paginated task listing.
type TaskListResponse struct {
	Items      []TaskResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewTaskResponse converts a task model into a DTO.
func NewTaskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:         t.ID,
		Title:      t.Title,
		Details:    t.Details,
		Status:     t.Status,
		AssigneeID: t.AssigneeID,
		ProjectID:  t.ProjectID,
		DueAt:      t.DueAt,
		CreatedBy:  t.CreatedBy,
		UpdatedBy:  t.UpdatedBy,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// RequestCreateRequest captures a client-submitted request.
type RequestCreateRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=255"`
	Message string `json:"message" validate:"required,min=10"`
}

// RequestStatusRequest moves a client request through its workflow.
type RequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_review resolved"`
}

// RequestListRequest filters client request listings.
type RequestListRequest struct {
	Page     int
	PageSize int
	Status   string
	ClientID uint
}

// RequestResponse serializes a client request.
type RequestResponse struct {
	ID        uint      `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	ClientID  uint      `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestListResponse wraps a paginated request listing.
type RequestListResponse struct {
	Items      []RequestResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewRequestResponse converts a client request model into a DTO.
func NewRequestResponse(r models.ClientRequest) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		Subject:   r.Subject,
		Message:   r.Message,
		Status:    r.Status,
		ClientID:  r.ClientID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// StatEntry is one headline metric in an upsert payload.
type StatEntry struct {
	Key       string `json:"key" validate:"required,min=2,max=120"`
	Label     string `json:"label" validate:"required,min=2,max=160"`
	Value     string `json:"value" validate:"required,max=120"`
	SortOrder int    `json:"sort_order"`
}

// StatsUpsertRequest replaces or inserts headline metrics in one batch.
type StatsUpsertRequest struct {
	Stats []StatEntry `json:"stats" validate:"required,min=1,dive"`
}

// StatResponse serializes a headline metric.
type StatResponse struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	SortOrder int       `json:"sort_order"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStatResponse converts a stat model into a DTO.
func NewStatResponse(s models.PortfolioStat) StatResponse {
	return StatResponse{
		Key:       s.Key,
		Label:     s.Label,
		Value:     s.Value,
		SortOrder: s.SortOrder,
		UpdatedAt: s.UpdatedAt,
	}
}

// UploadResponse describes a stored media file.
type UploadResponse struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUploadResponse converts an upload record into a DTO.
func NewUploadResponse(u models.UploadRecord) UploadResponse {
	return UploadResponse{
		ID:        u.ID,
		FileName:  u.FileName,
		URL:       u.URL,
		MimeType:  u.MimeType,
		SizeBytes: u.SizeBytes,
		CreatedAt: u.CreatedAt,
	}
}
