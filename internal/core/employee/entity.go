package employee

// Employee は社員レコードを表すエンティティです。
// ID が 0 の場合は未永続化であり、初回保存時にストアが採番します。
type Employee struct {
	ID     int64
	Name   string
	Role   string
	Salary *int64
}

// IsTransient は未永続化の社員であれば true を返します。
func (e *Employee) IsTransient() bool {
	return e == nil || e.ID == 0
}

// Equal は Name, Role, Salary のみを比較します。
// ID はストアが採番するため比較対象に含めません。
func (e *Employee) Equal(other *Employee) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Name != other.Name || e.Role != other.Role {
		return false
	}
	switch {
	case e.Salary == nil && other.Salary == nil:
		return true
	case e.Salary == nil || other.Salary == nil:
		return false
	default:
		return *e.Salary == *other.Salary
	}
}

// Clone はポインタを共有しない複製を返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Salary != nil {
		salary := *e.Salary
		clone.Salary = &salary
	}
	return &clone
}

// DefaultRoster は起動時にプリロードされる社員の一覧です。
func DefaultRoster() []*Employee {
	return []*Employee{
		{Name: "Bilbo Baggins", Role: "burglar"},
		{Name: "Frodo Baggins", Role: "thief"},
	}
}
