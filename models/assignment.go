package models

import (
	"time"
)

// Assignment links an engineer to a project. EngineerID and ProjectID are plain
// columns without foreign-key constraints, so deleting a project leaves its
// assignments in place.
type Assignment struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
	EngineerID           uint      `gorm:"not null;index" json:"engineerId"`
	ProjectID            uint      `gorm:"not null;index" json:"projectId"`
	AllocationPercentage int       `gorm:"not null" json:"allocationPercentage"`
	StartDate            *Date     `json:"startDate"`
	EndDate              *Date     `json:"endDate"`
	Role                 string    `gorm:"size:255" json:"role"`
}

// ActiveOn reports whether the assignment still consumes capacity on day.
// Assignments without an end date are open-ended.
func (a *Assignment) ActiveOn(day Date) bool {
	if a.EndDate == nil {
		return true
	}
	return !a.EndDate.Before(day)
}

// AssignmentView is an assignment with the display names of its engineer and project.
type AssignmentView struct {
	Assignment
	EngineerName *string `json:"engineerName"`
	ProjectName  *string `json:"projectName"`
}
