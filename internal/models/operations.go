package models

import "time"

// Task statuses used on the staff board.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is an internal work item. Tasks have no publish workflow.
type Task struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Details    string     `gorm:"type:text" json:"details"`
	Status     string     `gorm:"size:32;not null;default:todo" json:"status"`
	AssigneeID *uint      `gorm:"index" json:"assignee_id"`
	ProjectID  *uint      `gorm:"index" json:"project_id"`
	DueAt      *time.Time `json:"due_at"`
	CreatedBy  uint       `gorm:"index" json:"created_by"`
	UpdatedBy  uint       `json:"updated_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ClientRequest statuses.
const (
	RequestStatusNew      = "new"
	RequestStatusInReview = "in_review"
	RequestStatusResolved = "resolved"
)

// ClientRequest is an enquiry or change request submitted by a client account.
type ClientRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"size:32;not null;default:new" json:"status"`
	ClientID  uint      `gorm:"index;not null" json:"client_id"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PortfolioStat is a headline metric on the marketing site, keyed by a stable
// handle so rewrites upsert instead of duplicating rows.
type PortfolioStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:120;uniqueIndex;not null" json:"key"`
	Label     string    `gorm:"size:160;not null" json:"label"`
	Value     string    `gorm:"size:120;not null" json:"value"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadRecord stores metadata about uploaded media files.
type UploadRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	MimeType  string    `gorm:"size:128;not null" json:"mime_type"`
	SizeBytes int64     `gorm:"not null" json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
