// Package policy decides which projects and assignments a user may see.
//
// Managers are unrestricted. Engineers see their own assignments and the
// projects they are linked to by at least one assignment.
package policy

import (
	"context"

	"erms/models"
	"erms/store"
)

// Linker reports whether an assignment ties an engineer to a project.
type Linker interface {
	Linked(ctx context.Context, engineerID, projectID uint) (bool, error)
}

// AssignmentScope returns the engineer id an assignment listing must be limited
// to, or 0 when the user may list every assignment.
func AssignmentScope(user *models.User) uint {
	if user.IsManager() {
		return 0
	}
	return user.ID
}

// ProjectScope builds the listing filter for user.
func ProjectScope(user *models.User, status models.ProjectStatus) store.ProjectFilter {
	f := store.ProjectFilter{Status: status}
	if !user.IsManager() {
		f.AssignedEngineerID = user.ID
	}
	return f
}

func CanViewAssignment(user *models.User, a *models.Assignment) bool {
	if user.IsManager() {
		return true
	}
	return a.EngineerID == user.ID
}

// CanViewProject returns false, nil when access is denied and a non-nil error
// only when the link lookup itself fails.
func CanViewProject(ctx context.Context, links Linker, user *models.User, projectID uint) (bool, error) {
	if user.IsManager() {
		return true, nil
	}
	return links.Linked(ctx, user.ID, projectID)
}
