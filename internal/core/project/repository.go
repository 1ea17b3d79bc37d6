package project

import "github.com/chiragthakuri/time-tracker/internal/core/resource"

// Repository はプロジェクト永続化の抽象です。
type Repository interface {
	resource.Store[*Project]
}
