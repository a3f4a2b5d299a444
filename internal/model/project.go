package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// UUIDList is an id set stored as a jsonb array on the owning record.
type UUIDList []uuid.UUID

func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Project status changes are free-form; only tasks follow an ordered line.
// Dates are calendar days in YYYY-MM-DD form, as submitted by clients.
type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string        `gorm:"not null"`
	Description string
	Status      ProjectStatus `gorm:"not null;default:'PLANNING'"`
	StartDate   string
	EndDate     string
	ManagerID   uuid.UUID     `gorm:"type:uuid;not null"`
	TeamIDs     UUIDList      `gorm:"type:jsonb;serializer:json"`
	Documents   DocumentList  `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
