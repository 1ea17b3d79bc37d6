package employee

import (
	"time"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
)

// Resource は社員の外部公開形状です。
type Resource struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name" validate:"required,max=200"`
	StartDate resource.Date    `json:"startDate" validate:"required"`
	Projects  []ProjectSummary `json:"projects"`
}

// ProjectSummary は社員リソースに含まれるプロジェクト参照です。読み取り専用です。
type ProjectSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r Resource) ResourceID() int64 {
	return r.ID
}

// Mapper は Employee と Resource を相互に変換します。
type Mapper struct{}

func (Mapper) ToResource(e *Employee) Resource {
	projects := make([]ProjectSummary, 0, len(e.Projects))
	for _, p := range e.Projects {
		projects = append(projects, ProjectSummary{ID: p.ID, Name: p.Name})
	}
	return Resource{
		ID:        e.ID,
		Name:      e.Name,
		StartDate: resource.NewDate(e.StartDate),
		Projects:  projects,
	}
}

// ToEntity は Resource を永続化形状へ変換します。projects は関連の所有側 (プロジェクト) で管理するため引き継ぎません。
func (Mapper) ToEntity(id int64, r Resource) *Employee {
	return &Employee{
		ID:        id,
		Name:      r.Name,
		StartDate: r.StartDate.Time(),
	}
}

// Diff は before から after への書き込み可能カラムの差分を返します。
func (Mapper) Diff(before, after *Employee) resource.Changes {
	var changes resource.Changes
	if before.Name != after.Name {
		changes = changes.Set(ColumnName, after.Name)
	}
	if !sameDate(before.StartDate, after.StartDate) {
		changes = changes.Set(ColumnStartDate, after.StartDate)
	}
	return changes
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
