package project

import "github.com/chiragthakuri/time-tracker/internal/core/resource"

// Resource はプロジェクトの外部公開形状です。
type Resource struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
	EmployeeID  *int64  `json:"employeeId" validate:"omitempty,gt=0"`
}

func (r Resource) ResourceID() int64 {
	return r.ID
}

// Mapper は Project と Resource を相互に変換します。
type Mapper struct{}

func (Mapper) ToResource(p *Project) Resource {
	return Resource{
		ID:          p.ID,
		Name:        p.Name,
		Description: cloneString(p.Description),
		EmployeeID:  cloneInt64(p.EmployeeID),
	}
}

func (Mapper) ToEntity(id int64, r Resource) *Project {
	return &Project{
		ID:          id,
		Name:        r.Name,
		Description: cloneString(r.Description),
		EmployeeID:  cloneInt64(r.EmployeeID),
	}
}

// Diff は before から after への書き込み可能カラムの差分を返します。
func (Mapper) Diff(before, after *Project) resource.Changes {
	var changes resource.Changes
	if before.Name != after.Name {
		changes = changes.Set(ColumnName, after.Name)
	}
	if !equalPtr(before.Description, after.Description) {
		changes = changes.Set(ColumnDescription, cloneString(after.Description))
	}
	if !equalPtr(before.EmployeeID, after.EmployeeID) {
		changes = changes.Set(ColumnEmployeeID, cloneInt64(after.EmployeeID))
	}
	return changes
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt64(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
