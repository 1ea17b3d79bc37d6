package gorm

import (
	"context"

	"github.com/chiragthakuri/time-tracker/internal/core/project"
	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var projectWritableColumns = []string{project.ColumnName, project.ColumnDescription, project.ColumnEmployeeID}

// ProjectStore は gorm を利用したプロジェクト永続化の実装です。
type ProjectStore struct {
	store
}

// NewProjectStore は ProjectStore を生成します。
func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{store{db: db}}
}

// List implements project.Repository.
func (s *ProjectStore) List(ctx context.Context) ([]*project.Project, error) {
	var rows []Project
	if err := s.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	projects := make([]*project.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, toProject(&rows[i]))
	}
	return projects, nil
}

// FindByID implements project.Repository.
func (s *ProjectStore) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	var row Project
	if err := s.conn(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return toProject(&row), nil
}

// Create implements project.Repository.
func (s *ProjectStore) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	row := fromProject(p)
	row.ID = 0
	row.Version = 1

	if err := s.conn(ctx).Create(row).Error; err != nil {
		return nil, translate(err)
	}
	return toProject(row), nil
}

// Replace implements project.Repository.
func (s *ProjectStore) Replace(ctx context.Context, p *project.Project) error {
	res := s.conn(ctx).Model(&Project{}).Where("id = ?", p.ID).Updates(map[string]any{
		project.ColumnName:        p.Name,
		project.ColumnDescription: p.Description,
		project.ColumnEmployeeID:  p.EmployeeID,
		"version":                 gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return conflict(Project{}.TableName(), p.ID)
	}
	return nil
}

// Update implements project.Repository.
func (s *ProjectStore) Update(ctx context.Context, id, version int64, changes resource.Changes) error {
	values, err := updates(changes, projectWritableColumns, func(_ string, value any) any { return value })
	if err != nil {
		return err
	}

	res := s.conn(ctx).Model(&Project{}).Where("id = ? AND version = ?", id, version).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return conflict(Project{}.TableName(), id)
	}
	return nil
}

// Delete implements project.Repository.
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	res := s.conn(ctx).Delete(&Project{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.WithStack(resource.ErrNotFound)
	}
	return nil
}

var _ project.Repository = &ProjectStore{}
