package service

import "github.com/atlasworks/atlas-api/internal/models"

// Actor is the resolved identity attributed to a mutation or audit record.
// It is passed explicitly into every call; services never read ambient
// session state.
type Actor struct {
	ID   uint
	Role string
}

// IsStaff reports whether the actor may manage content.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleStaff
}
