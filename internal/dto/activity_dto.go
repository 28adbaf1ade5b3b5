package dto

import (
	"time"

	"github.com/atlasworks/atlas-api/internal/models"
)

// ActivityListRequest defines filters for retrieving activity logs.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	Action     string
	EntityType string
	ActorID    uint
}

// ActivityActorInfo is the denormalized actor display block joined at read
// time. Nil fields mean the actor account could not be resolved; the record
// itself is still returned.
type ActivityActorInfo struct {
	ID    uint    `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  string  `json:"role"`
}

// ActivityResponse serializes an audit trail entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	EntityName string                 `json:"entity_name"`
	Changes    map[string]interface{} `json:"changes,omitempty"`
	Actor      ActivityActorInfo      `json:"actor"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ActivityListResponse wraps paginated activity logs.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse converts a model into an activity DTO. The actor block
// only carries id and role until the read-side join fills in display fields.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	var changes map[string]interface{}
	if len(entry.Changes) > 0 {
		changes = map[string]interface{}(entry.Changes)
	}

	return ActivityResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Changes:    changes,
		Actor:      ActivityActorInfo{ID: entry.ActorID, Role: entry.ActorRole},
		CreatedAt:  entry.CreatedAt,
	}
}
