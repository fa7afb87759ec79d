package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ogurasousui/employee-records/internal/core/employee"
)

// EmployeeRepository はプロセス内のマップに社員を保持する実装です。
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[int64]*employee.Employee
	sequence  int64
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は空の EmployeeRepository を生成します。
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[int64]*employee.Employee)}
}

// FindAll は全社員を ID 昇順で返します。
func (r *EmployeeRepository) FindAll(_ context.Context) ([]*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		result = append(result, e.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id int64) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

// Save は ID 未設定なら採番して挿入し、設定済みならその ID で upsert します。
// 明示された ID は採番シーケンスにも反映し、以降の採番と衝突させません。
func (r *EmployeeRepository) Save(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e == nil {
		return nil, employee.ErrInvalidPayload
	}
	if e.ID < 0 {
		return nil, employee.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := e.Clone()
	if stored.IsTransient() {
		r.sequence++
		stored.ID = r.sequence
	} else if stored.ID > r.sequence {
		r.sequence = stored.ID
	}
	r.employees[stored.ID] = stored
	return stored.Clone(), nil
}

// DeleteByID は社員を削除します。
func (r *EmployeeRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.employees, id)
	return nil
}
