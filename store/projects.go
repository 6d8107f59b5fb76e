package store

import (
	"context"
	"fmt"

	"erms/models"

	"gorm.io/gorm"
)

type ProjectStore struct {
	db *gorm.DB
}

// ProjectFilter narrows a project listing. Zero values mean "no restriction".
type ProjectFilter struct {
	// AssignedEngineerID restricts the result to projects with at least one
	// assignment for this engineer.
	AssignedEngineerID uint
	Status             models.ProjectStatus
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Project{})

	if f.AssignedEngineerID != 0 {
		assigned := db.Model(&models.Assignment{}).
			Select("project_id").
			Where("engineer_id = ?", f.AssignedEngineerID)
		query = query.Where("id IN (?)", assigned)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	projects := []models.Project{}
	if err := query.Order("id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Delete removes the project row. Assignments that reference it are left untouched.
func (s *ProjectStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
