package postgres

import (
	"context"
	"time"

	"github.com/chiragthakuri/time-tracker/internal/core/employee"
	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	pgdb "github.com/chiragthakuri/time-tracker/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
)

const employeesTable = "employees"

var employeeWritableColumns = []string{employee.ColumnName, employee.ColumnStartDate}

const (
	selectEmployeesQuery = `
        SELECT id, name, start_date, version
          FROM employees
         ORDER BY id
    `
	selectEmployeeByIDQuery = `
        SELECT id, name, start_date, version
          FROM employees
         WHERE id = $1
    `
	selectEmployeeProjectsQuery = `
        SELECT id, name, employee_id
          FROM projects
         WHERE employee_id = ANY($1)
         ORDER BY id
    `
	insertEmployeeQuery = `
        INSERT INTO employees (name, start_date)
        VALUES ($1, $2)
        RETURNING id, name, start_date, version
    `
	replaceEmployeeQuery = `
        UPDATE employees
           SET name = $1,
               start_date = $2,
               version = version + 1
         WHERE id = $3
    `
	deleteEmployeeQuery = `DELETE FROM employees WHERE id = $1`
)

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// List は社員の一覧を担当プロジェクト付きで取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, selectEmployeesQuery)
	if err != nil {
		return nil, TranslatePgError(err)
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		found, err := scanEmployee(rows)
		if err != nil {
			return nil, TranslatePgError(err)
		}
		employees = append(employees, found)
	}
	if err := rows.Err(); err != nil {
		return nil, TranslatePgError(err)
	}

	if err := r.attachProjects(ctx, exec, employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanEmployee(exec.QueryRow(ctx, selectEmployeeByIDQuery, id))
	if err != nil {
		return nil, TranslatePgError(err)
	}

	if err := r.attachProjects(ctx, exec, []*employee.Employee{found}); err != nil {
		return nil, err
	}
	return found, nil
}

// Create は社員を新規作成します。担当プロジェクトは書き込みません。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	created, err := scanEmployee(exec.QueryRow(ctx, insertEmployeeQuery, e.Name, e.StartDate))
	if err != nil {
		return nil, TranslatePgError(err)
	}
	created.Projects = []employee.ProjectSnapshot{}
	return created, nil
}

// Replace は社員の書き込み可能カラムを上書きします。行が無い場合は競合として扱います。
func (r *EmployeeRepository) Replace(ctx context.Context, e *employee.Employee) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, replaceEmployeeQuery, e.Name, e.StartDate, e.ID)
	if err != nil {
		return TranslatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return conflict(employeesTable, e.ID)
	}
	return nil
}

// Update は version が一致する場合に限り changes のカラムを更新します。
func (r *EmployeeRepository) Update(ctx context.Context, id, version int64, changes resource.Changes) error {
	query, args, err := buildUpdate(employeesTable, employeeWritableColumns, id, version, changes)
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return TranslatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return conflict(employeesTable, id)
	}
	return nil
}

// Delete は社員を削除します。担当プロジェクトの employee_id は外部キー制約により NULL になります。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteEmployeeQuery, id)
	if err != nil {
		return TranslatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) attachProjects(ctx context.Context, exec pgdb.Queryer, employees []*employee.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(employees))
	byID := make(map[int64]*employee.Employee, len(employees))
	for _, e := range employees {
		e.Projects = []employee.ProjectSnapshot{}
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}

	rows, err := exec.Query(ctx, selectEmployeeProjectsQuery, ids)
	if err != nil {
		return TranslatePgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			snapshot employee.ProjectSnapshot
			ownerID  int64
		)
		if err := rows.Scan(&snapshot.ID, &snapshot.Name, &ownerID); err != nil {
			return TranslatePgError(err)
		}
		if owner, ok := byID[ownerID]; ok {
			owner.Projects = append(owner.Projects, snapshot)
		}
	}
	return TranslatePgError(rows.Err())
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id        int64
		name      string
		startDate time.Time
		version   int64
	)
	if err := row.Scan(&id, &name, &startDate, &version); err != nil {
		return nil, err
	}

	return &employee.Employee{
		ID:        id,
		Name:      name,
		StartDate: calendarDate(startDate),
		Version:   version,
	}, nil
}

// calendarDate は DATE カラムの値を UTC の 0 時へ揃えます。
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
