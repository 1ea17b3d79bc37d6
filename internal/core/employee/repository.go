package employee

import "github.com/chiragthakuri/time-tracker/internal/core/resource"

// Repository は社員永続化の抽象です。
type Repository interface {
	resource.Store[*Employee]
}
