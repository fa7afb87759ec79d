package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogurasousui/employee-records/internal/core/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type employeeRecord struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Name   string `gorm:"not null"`
	Role   string `gorm:"not null"`
	Salary *int64
}

func (employeeRecord) TableName() string {
	return "employees"
}

// Models は AutoMigrate に渡すモデルの一覧です。
func Models() []any {
	return []any{&employeeRecord{}}
}

// EmployeeRepository は gorm + SQLite を利用した社員永続化の実装です。
type EmployeeRepository struct {
	db *gorm.DB
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindAll は全社員を ID 昇順で取得します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	var records []employeeRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("sqlite: find employees: %w", err)
	}

	employees := make([]*employee.Employee, 0, len(records))
	for i := range records {
		employees = append(employees, records[i].toEntity())
	}
	return employees, nil
}

// FindByID は社員を取得します。存在しない場合は ErrEmployeeNotFound を返します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var rec employeeRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("sqlite: find employee %d: %w", id, err)
	}
	return rec.toEntity(), nil
}

// Save は ID 未設定なら autoincrement で挿入し、設定済みなら ON CONFLICT で upsert します。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e == nil {
		return nil, employee.ErrInvalidPayload
	}

	rec := fromEntity(e)
	db := r.db.WithContext(ctx)
	if !e.IsTransient() {
		db = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		})
	}

	if err := db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, employee.ErrDuplicateID
		}
		return nil, fmt.Errorf("sqlite: save employee: %w", err)
	}

	return r.FindByID(ctx, rec.ID)
}

// DeleteByID は社員を削除します。対象が存在しなくてもエラーにしません。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&employeeRecord{}, id).Error; err != nil {
		return fmt.Errorf("sqlite: delete employee %d: %w", id, err)
	}
	return nil
}

func fromEntity(e *employee.Employee) employeeRecord {
	rec := employeeRecord{ID: e.ID, Name: e.Name, Role: e.Role}
	if e.Salary != nil {
		salary := *e.Salary
		rec.Salary = &salary
	}
	return rec
}

func (r employeeRecord) toEntity() *employee.Employee {
	return (&employee.Employee{
		ID:     r.ID,
		Name:   r.Name,
		Role:   r.Role,
		Salary: r.Salary,
	}).Clone()
}
