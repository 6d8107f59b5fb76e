package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted:
		return true
	}
	return false
}

func (s *ProjectStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(s), "status", func(v string) bool { return ProjectStatus(v).Valid() })
}

type Project struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time                   `json:"-"`
	UpdatedAt      time.Time                   `json:"-"`
	Name           string                      `gorm:"not null;size:255" json:"name"`
	Description    string                      `gorm:"size:1024" json:"description"`
	StartDate      *Date                       `json:"startDate"`
	EndDate        *Date                       `json:"endDate"`
	RequiredSkills datatypes.JSONSlice[string] `json:"requiredSkills"`
	TeamSize       *int                        `json:"teamSize"`
	Status         ProjectStatus               `gorm:"not null;size:20;index" json:"status"`
	ManagerID      uint                        `gorm:"not null;index" json:"managerId"`
}
