package employee

import "time"

// 書き込み可能カラム名です。
const (
	ColumnName      = "name"
	ColumnStartDate = "start_date"
)

// Employee は社員エンティティ (永続化形状) です。
type Employee struct {
	ID        int64
	Name      string
	StartDate time.Time
	// Version はストアが管理する楽観的排他制御用のトークンです。外部には公開しません。
	Version  int64
	Projects []ProjectSnapshot
}

// ProjectSnapshot は社員に紐づくプロジェクトのスナップショットです。
type ProjectSnapshot struct {
	ID   int64
	Name string
}

func (e *Employee) RecordID() int64 {
	return e.ID
}

func (e *Employee) RecordVersion() int64 {
	return e.Version
}
