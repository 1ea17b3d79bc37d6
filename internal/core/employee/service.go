package employee

import (
	"log/slog"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
)

// ResourceName はログやメトリクスで使うリソース名です。
const ResourceName = "employee"

// Service は社員リソースのユースケースです。
type Service = resource.Service[*Employee, Resource]

// NewService は社員リソースの Service を生成します。
func NewService(repo Repository, tx resource.TransactionManager, logger *slog.Logger) *Service {
	return resource.NewService[*Employee, Resource](ResourceName, repo, Mapper{}, tx, logger)
}
