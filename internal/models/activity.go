package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded against entities. The set is closed; services derive
// publish/unpublish from the published transition rather than accepting them
// from callers.
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
)

// ActivityLog is the append-only audit trail. Rows are written exactly once
// per successful mutation and never updated or deleted through the API.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"index;not null" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:32;not null" json:"action"`
	EntityType string            `gorm:"size:64;index;not null" json:"entity_type"`
	EntityID   *uint             `gorm:"index" json:"entity_id"`
	EntityName string            `gorm:"size:255" json:"entity_name"`
	Changes    datatypes.JSONMap `gorm:"type:json" json:"changes"`
	CreatedAt  time.Time         `json:"created_at"`
}
