package postgres

import (
	"context"
	"database/sql"

	"github.com/chiragthakuri/time-tracker/internal/core/project"
	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	pgdb "github.com/chiragthakuri/time-tracker/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
)

const projectsTable = "projects"

var projectWritableColumns = []string{project.ColumnName, project.ColumnDescription, project.ColumnEmployeeID}

const (
	selectProjectsQuery = `
        SELECT id, name, description, employee_id, version
          FROM projects
         ORDER BY id
    `
	selectProjectByIDQuery = `
        SELECT id, name, description, employee_id, version
          FROM projects
         WHERE id = $1
    `
	insertProjectQuery = `
        INSERT INTO projects (name, description, employee_id)
        VALUES ($1, $2, $3)
        RETURNING id, name, description, employee_id, version
    `
	replaceProjectQuery = `
        UPDATE projects
           SET name = $1,
               description = $2,
               employee_id = $3,
               version = version + 1
         WHERE id = $4
    `
	deleteProjectQuery = `DELETE FROM projects WHERE id = $1`
)

// ProjectRepository は PostgreSQL を利用したプロジェクト永続化の実装です。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// List はプロジェクトの一覧を取得します。
func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, selectProjectsQuery)
	if err != nil {
		return nil, TranslatePgError(err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		found, err := scanProject(rows)
		if err != nil {
			return nil, TranslatePgError(err)
		}
		projects = append(projects, found)
	}
	if err := rows.Err(); err != nil {
		return nil, TranslatePgError(err)
	}
	return projects, nil
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanProject(exec.QueryRow(ctx, selectProjectByIDQuery, id))
	if err != nil {
		return nil, TranslatePgError(err)
	}
	return found, nil
}

// Create はプロジェクトを新規作成します。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	created, err := scanProject(exec.QueryRow(ctx, insertProjectQuery, p.Name, p.Description, p.EmployeeID))
	if err != nil {
		return nil, TranslatePgError(err)
	}
	return created, nil
}

// Replace はプロジェクトの書き込み可能カラムを上書きします。
func (r *ProjectRepository) Replace(ctx context.Context, p *project.Project) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, replaceProjectQuery, p.Name, p.Description, p.EmployeeID, p.ID)
	if err != nil {
		return TranslatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return conflict(projectsTable, p.ID)
	}
	return nil
}

// Update は version が一致する場合に限り changes のカラムを更新します。
func (r *ProjectRepository) Update(ctx context.Context, id, version int64, changes resource.Changes) error {
	query, args, err := buildUpdate(projectsTable, projectWritableColumns, id, version, changes)
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return TranslatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return conflict(projectsTable, id)
	}
	return nil
}

// Delete はプロジェクトを削除します。
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteProjectQuery, id)
	if err != nil {
		return TranslatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		id          int64
		name        string
		description sql.NullString
		employeeID  sql.NullInt64
		version     int64
	)
	if err := row.Scan(&id, &name, &description, &employeeID, &version); err != nil {
		return nil, err
	}

	p := &project.Project{ID: id, Name: name, Version: version}
	if description.Valid {
		desc := description.String
		p.Description = &desc
	}
	if employeeID.Valid {
		owner := employeeID.Int64
		p.EmployeeID = &owner
	}
	return p, nil
}
