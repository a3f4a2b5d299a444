package model

import (
	"time"

	"github.com/google/uuid"
)

// Role determines every policy predicate outcome. Roles are global, not
// scoped to a project.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleTeamLead       Role = "TEAM_LEAD"
	RoleDeveloper      Role = "DEVELOPER"
	RoleTester         Role = "TESTER"
)

// SeedAdminUsername is the login handle of the account seeded at first run.
// The policy layer refuses to delete it.
const SeedAdminUsername = "admin"

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleTeamLead, RoleDeveloper, RoleTester:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"not null"`
	Role           Role      `gorm:"not null"`
	Avatar         string
	HashedPassword string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
