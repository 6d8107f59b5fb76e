package store

import (
	"context"
	"fmt"

	"erms/models"

	"gorm.io/gorm"
)

type AssignmentStore struct {
	db *gorm.DB
}

func (s *AssignmentStore) Create(ctx context.Context, a *models.Assignment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (s *AssignmentStore) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// GetView loads one assignment together with its engineer and project names.
func (s *AssignmentStore) GetView(ctx context.Context, id uint) (*models.AssignmentView, error) {
	var views []models.AssignmentView
	if err := s.views(ctx).Where("assignments.id = ?", id).Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// ListViews returns assignments with display names. A non-zero engineerID limits
// the result to that engineer's rows.
func (s *AssignmentStore) ListViews(ctx context.Context, engineerID uint) ([]models.AssignmentView, error) {
	query := s.views(ctx)
	if engineerID != 0 {
		query = query.Where("assignments.engineer_id = ?", engineerID)
	}

	views := []models.AssignmentView{}
	if err := query.Order("assignments.id").Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return views, nil
}

// ListByEngineer returns the raw assignment rows of one engineer.
func (s *AssignmentStore) ListByEngineer(ctx context.Context, engineerID uint) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	err := s.db.WithContext(ctx).
		Where("engineer_id = ?", engineerID).
		Order("id").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("list engineer assignments: %w", err)
	}
	return assignments, nil
}

// Linked reports whether at least one assignment ties the engineer to the project.
func (s *AssignmentStore) Linked(ctx context.Context, engineerID, projectID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("engineer_id = ? AND project_id = ?", engineerID, projectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check assignment link: %w", err)
	}
	return count > 0, nil
}

func (s *AssignmentStore) views(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("assignments").
		Select("assignments.*, users.name AS engineer_name, projects.name AS project_name").
		Joins("LEFT JOIN users ON users.id = assignments.engineer_id").
		Joins("LEFT JOIN projects ON projects.id = assignments.project_id")
}
