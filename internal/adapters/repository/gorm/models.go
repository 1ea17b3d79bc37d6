package gorm

import (
	"time"

	"github.com/chiragthakuri/time-tracker/internal/core/employee"
	"github.com/chiragthakuri/time-tracker/internal/core/project"
)

const dateLayout = "2006-01-02"

type Employee struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:200;not null"`
	// StartDate は暦日 "YYYY-MM-DD" の文字列として保存する
	StartDate string    `gorm:"type:varchar(10);not null"`
	Version   int64     `gorm:"not null;default:1"`
	Projects  []Project `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL"`
}

func (Employee) TableName() string {
	return "employees"
}

type Project struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:200;not null"`
	Description *string
	EmployeeID  *int64 `gorm:"index"`
	Version     int64  `gorm:"not null;default:1"`
}

func (Project) TableName() string {
	return "projects"
}

// Models は AutoMigrate の対象です。
func Models() []any {
	return []any{&Employee{}, &Project{}}
}

func fromEmployee(e *employee.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		Name:      e.Name,
		StartDate: formatDate(e.StartDate),
		Version:   e.Version,
	}
}

func toEmployee(row *Employee) (*employee.Employee, error) {
	start, err := parseDate(row.StartDate)
	if err != nil {
		return nil, err
	}

	projects := make([]employee.ProjectSnapshot, 0, len(row.Projects))
	for _, p := range row.Projects {
		projects = append(projects, employee.ProjectSnapshot{ID: p.ID, Name: p.Name})
	}

	return &employee.Employee{
		ID:        row.ID,
		Name:      row.Name,
		StartDate: start,
		Version:   row.Version,
		Projects:  projects,
	}, nil
}

func fromProject(p *project.Project) *Project {
	return &Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		EmployeeID:  p.EmployeeID,
		Version:     p.Version,
	}
}

func toProject(row *Project) *project.Project {
	return &project.Project{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		EmployeeID:  row.EmployeeID,
		Version:     row.Version,
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}
