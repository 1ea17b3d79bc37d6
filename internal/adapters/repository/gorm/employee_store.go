package gorm

import (
	"context"
	"time"

	"github.com/chiragthakuri/time-tracker/internal/core/employee"
	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var employeeWritableColumns = []string{employee.ColumnName, employee.ColumnStartDate}

// EmployeeStore は gorm を利用した社員永続化の実装です。
type EmployeeStore struct {
	store
}

// NewEmployeeStore は EmployeeStore を生成します。
func NewEmployeeStore(db *gorm.DB) *EmployeeStore {
	return &EmployeeStore{store{db: db}}
}

func preloadProjects(db *gorm.DB) *gorm.DB {
	return db.Order("projects.id")
}

// List implements employee.Repository.
func (s *EmployeeStore) List(ctx context.Context) ([]*employee.Employee, error) {
	var rows []Employee
	if err := s.conn(ctx).Preload("Projects", preloadProjects).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	employees := make([]*employee.Employee, 0, len(rows))
	for i := range rows {
		e, err := toEmployee(&rows[i])
		if err != nil {
			return nil, errors.WithStack(err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// FindByID implements employee.Repository.
func (s *EmployeeStore) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var row Employee
	if err := s.conn(ctx).Preload("Projects", preloadProjects).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	e, err := toEmployee(&row)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return e, nil
}

// Create implements employee.Repository.
func (s *EmployeeStore) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	row := fromEmployee(e)
	row.ID = 0
	row.Version = 1

	if err := s.conn(ctx).Omit("Projects").Create(row).Error; err != nil {
		return nil, translate(err)
	}

	created, err := toEmployee(row)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return created, nil
}

// Replace implements employee.Repository.
func (s *EmployeeStore) Replace(ctx context.Context, e *employee.Employee) error {
	res := s.conn(ctx).Model(&Employee{}).Where("id = ?", e.ID).Updates(map[string]any{
		employee.ColumnName:      e.Name,
		employee.ColumnStartDate: formatDate(e.StartDate),
		"version":                gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return conflict(Employee{}.TableName(), e.ID)
	}
	return nil
}

// Update implements employee.Repository.
func (s *EmployeeStore) Update(ctx context.Context, id, version int64, changes resource.Changes) error {
	values, err := updates(changes, employeeWritableColumns, encodeEmployeeValue)
	if err != nil {
		return err
	}

	res := s.conn(ctx).Model(&Employee{}).Where("id = ? AND version = ?", id, version).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return conflict(Employee{}.TableName(), id)
	}
	return nil
}

// Delete implements employee.Repository.
func (s *EmployeeStore) Delete(ctx context.Context, id int64) error {
	res := s.conn(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.WithStack(resource.ErrNotFound)
	}
	return nil
}

func encodeEmployeeValue(column string, value any) any {
	if t, ok := value.(time.Time); ok && column == employee.ColumnStartDate {
		return formatDate(t)
	}
	return value
}

var _ employee.Repository = &EmployeeStore{}
