package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-records/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-records/internal/platform/db/postgres"
)

const employeeUniqueViolationCode = "23505"

const employeeColumns = `id, name, role, salary`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindAll は全社員を ID 昇順で取得します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// Save は ID 未設定なら採番して挿入し、設定済みなら ID をキーに upsert します。
// 明示した ID が id シーケンスの現在値を超える場合はシーケンスをその ID まで進めます。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var row pgx.Row
	if e.IsTransient() {
		row = exec.QueryRow(ctx, `
        INSERT INTO employees (name, role, salary)
        VALUES ($1, $2, $3)
        RETURNING `+employeeColumns,
			e.Name,
			e.Role,
			nullableInt64(e.Salary),
		)
	} else {
		row = exec.QueryRow(ctx, `
        INSERT INTO employees (id, name, role, salary)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
           SET name = EXCLUDED.name,
               role = EXCLUDED.role,
               salary = EXCLUDED.salary
        RETURNING `+employeeColumns,
			e.ID,
			e.Name,
			e.Role,
			nullableInt64(e.Salary),
		)
	}

	saved, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}

	if !e.IsTransient() {
		if _, err := exec.Exec(ctx, advanceEmployeeSequenceSQL, saved.ID); err != nil {
			return nil, fmt.Errorf("postgres: advance employee id sequence: %w", translateEmployeePgError(err))
		}
	}
	return saved, nil
}

// 採番済みの値以下であれば何もしません。
const advanceEmployeeSequenceSQL = `
        SELECT setval(pg_get_serial_sequence('employees', 'id'), $1)
         WHERE $1 > COALESCE(pg_sequence_last_value(pg_get_serial_sequence('employees', 'id')::regclass), 0)`

// DeleteByID は社員を削除します。対象が存在しなくてもエラーにしません。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id     int64
		name   string
		role   string
		salary sql.NullInt64
	)

	if err := row.Scan(&id, &name, &role, &salary); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp := &employee.Employee{ID: id, Name: name, Role: role}
	if salary.Valid {
		v := salary.Int64
		emp.Salary = &v
	}
	return emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == employeeUniqueViolationCode {
		return employee.ErrDuplicateID
	}

	return err
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
