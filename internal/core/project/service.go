package project

import (
	"log/slog"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
)

// ResourceName はログやメトリクスで使うリソース名です。
const ResourceName = "project"

// Service はプロジェクトリソースのユースケースです。
type Service = resource.Service[*Project, Resource]

// NewService はプロジェクトリソースの Service を生成します。
func NewService(repo Repository, tx resource.TransactionManager, logger *slog.Logger) *Service {
	return resource.NewService[*Project, Resource](ResourceName, repo, Mapper{}, tx, logger)
}
