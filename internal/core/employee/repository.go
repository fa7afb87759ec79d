package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	// FindAll は全社員を ID 昇順で返します。
	FindAll(ctx context.Context) ([]*Employee, error)
	// FindByID は該当がなければ ErrEmployeeNotFound を返します。
	FindByID(ctx context.Context, id int64) (*Employee, error)
	// Save は ID が 0 なら新規採番して挿入し、それ以外は ID をキーに upsert します。
	Save(ctx context.Context, employee *Employee) (*Employee, error)
	// DeleteByID は存在しない ID に対しても成功します。
	DeleteByID(ctx context.Context, id int64) error
}
