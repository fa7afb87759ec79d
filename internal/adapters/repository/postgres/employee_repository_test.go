package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-records/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-records/internal/platform/db/postgres"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var employeeRowColumns = []string{"id", "name", "role", "salary"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

type stubEmployeeRow struct {
	scanFn func(dest ...any) error
}

func (s stubEmployeeRow) Scan(dest ...any) error {
	return s.scanFn(dest...)
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubEmployeeRow{scanFn: func(dest ...any) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanEmployee(row); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: employeeUniqueViolationCode}
	if !errors.Is(translateEmployeePgError(uniqueErr), employee.ErrDuplicateID) {
		t.Fatalf("expected unique violation to map to ErrDuplicateID")
	}

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected no rows to map to ErrEmployeeNotFound")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_FindAll(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	rows := pgxmock.NewRows(employeeRowColumns).
		AddRow(int64(1), "Bilbo Baggins", "burglar", nil).
		AddRow(int64(2), "Frodo Baggins", "thief", int64(500))

	mock.ExpectQuery(`SELECT id, name, role, salary FROM employees ORDER BY id`).
		WillReturnRows(rows)

	employees, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}

	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
	if employees[0].Name != "Bilbo Baggins" || employees[0].Salary != nil {
		t.Fatalf("unexpected first employee: %+v", employees[0])
	}
	if employees[1].Salary == nil || *employees[1].Salary != 500 {
		t.Fatalf("unexpected second employee salary: %+v", employees[1].Salary)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`FROM employees WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns))

	if _, err := repo.FindByID(context.Background(), 99); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Save_InsertAssignsID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`INSERT INTO employees \(name, role, salary\) VALUES \(\$1, \$2, \$3\) RETURNING id, name, role, salary`).
		WithArgs("Bob", "Builder", nil).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).AddRow(int64(3), "Bob", "Builder", nil))

	saved, err := repo.Save(context.Background(), &employee.Employee{Name: "Bob", Role: "Builder"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID != 3 {
		t.Fatalf("expected id 3, got %d", saved.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Save_UpsertByID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	salary := int64(42)

	mock.ExpectQuery(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(int64(1), "Sam", "Arsonist", int64(42)).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).AddRow(int64(1), "Sam", "Arsonist", int64(42)))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('employees', 'id'\), \$1\)`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	saved, err := repo.Save(context.Background(), &employee.Employee{ID: 1, Name: "Sam", Role: "Arsonist", Salary: &salary})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID != 1 || saved.Salary == nil || *saved.Salary != 42 {
		t.Fatalf("unexpected saved employee: %+v", saved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Save_ExplicitIDAdvancesSequence(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(int64(100), "Samwise Gamgee", "gardener", nil).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).AddRow(int64(100), "Samwise Gamgee", "gardener", nil))
	mock.ExpectExec(`WHERE \$1 > COALESCE\(pg_sequence_last_value`).
		WithArgs(int64(100)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`INSERT INTO employees \(name, role, salary\)`).
		WithArgs("Rosie Cotton", "innkeeper", nil).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).AddRow(int64(101), "Rosie Cotton", "innkeeper", nil))

	if _, err := repo.Save(context.Background(), &employee.Employee{ID: 100, Name: "Samwise Gamgee", Role: "gardener"}); err != nil {
		t.Fatalf("Save with explicit id returned error: %v", err)
	}
	next, err := repo.Save(context.Background(), &employee.Employee{Name: "Rosie Cotton", Role: "innkeeper"})
	if err != nil {
		t.Fatalf("Save after explicit id returned error: %v", err)
	}
	if next.ID != 101 {
		t.Fatalf("expected id 101, got %d", next.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Save_SequenceFailure(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	seqErr := errors.New("permission denied for sequence")

	mock.ExpectQuery(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(int64(7), "Sam", "gardener", nil).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).AddRow(int64(7), "Sam", "gardener", nil))
	mock.ExpectExec(`SELECT setval`).
		WithArgs(int64(7)).
		WillReturnError(seqErr)

	if _, err := repo.Save(context.Background(), &employee.Employee{ID: 7, Name: "Sam", Role: "gardener"}); !errors.Is(err, seqErr) {
		t.Fatalf("expected sequence error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Save_DuplicateID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`INSERT INTO employees \(name, role, salary\)`).
		WithArgs("Bob", "Builder", nil).
		WillReturnError(&pgconn.PgError{Code: employeeUniqueViolationCode})

	if _, err := repo.Save(context.Background(), &employee.Employee{Name: "Bob", Role: "Builder"}); !errors.Is(err, employee.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestEmployeeRepository_DeleteByID_MissingIsNoop(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByID(context.Background(), 404); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_UsesTransactionFromContext(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	tm := pgdb.NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite})
	mock.ExpectExec(`DELETE FROM employees`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		return repo.DeleteByID(ctx, 1)
	})
	if err != nil {
		t.Fatalf("transactional delete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
