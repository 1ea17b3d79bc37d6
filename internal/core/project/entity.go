package project

// 書き込み可能カラム名です。
const (
	ColumnName        = "name"
	ColumnDescription = "description"
	ColumnEmployeeID  = "employee_id"
)

// Project はプロジェクトエンティティ (永続化形状) です。
type Project struct {
	ID          int64
	Name        string
	Description *string
	EmployeeID  *int64
	Version     int64
}

func (p *Project) RecordID() int64 {
	return p.ID
}

func (p *Project) RecordVersion() int64 {
	return p.Version
}
