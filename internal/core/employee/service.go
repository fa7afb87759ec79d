package employee

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	CreateEmployee(ctx context.Context, employee *Employee) (*Employee, error)
	ReplaceOrCreateEmployee(ctx context.Context, id int64, employee *Employee) (*Employee, error)
	RemoveEmployee(ctx context.Context, id int64) error
}

// Service は社員に関するユースケースをまとめます。
// 可変な状態を持たないため複数の goroutine から同時に利用できます。
type Service struct {
	repo     Repository
	enricher Enricher
	tx       TransactionManager
	logger   *zap.Logger
}

var _ UseCase = (*Service)(nil)

// NewService は Service を生成します。enricher, tx, logger は nil を許容します。
func NewService(repo Repository, enricher Enricher, tx TransactionManager, logger *zap.Logger) *Service {
	if enricher == nil {
		enricher = NoopEnricher{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, enricher: enricher, tx: tx, logger: logger}
}

// ListEmployees は全社員を返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee は社員を取得します。存在しない場合は *NotFoundError を返します。
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	found, err := s.find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return found, nil
}

// CreateEmployee は社員を保存します。
// 呼び出し側は ID を設定しない前提であり、ストアは新規挿入として扱います。
func (s *Service) CreateEmployee(ctx context.Context, employee *Employee) (*Employee, error) {
	if employee == nil {
		return nil, ErrInvalidPayload
	}

	s.enrich(ctx, employee)
	return s.save(ctx, employee)
}

// ReplaceOrCreateEmployee は id の社員が存在すれば Name と Role を置き換え、
// 存在しなければ新規作成します。
//
// 新規作成時は id を強制せずストアに採番させます。ストアの採番シーケンスと
// 協調せずに ID を指定すると後続の挿入と衝突するためです。そのため
// 存在しない id への PUT は、その id でリソースが作られることを保証しません。
//
// 検索と保存は別々の操作として実行されます。
func (s *Service) ReplaceOrCreateEmployee(ctx context.Context, id int64, employee *Employee) (*Employee, error) {
	if employee == nil {
		return nil, ErrInvalidPayload
	}

	existing, err := s.find(ctx, id)
	switch {
	case err == nil:
		existing.Name = employee.Name
		existing.Role = employee.Role
		s.enrich(ctx, existing)
		return s.save(ctx, existing)
	case errors.Is(err, ErrEmployeeNotFound):
		employee.ID = 0
		s.enrich(ctx, employee)
		return s.save(ctx, employee)
	default:
		return nil, err
	}
}

// RemoveEmployee は社員を削除します。存在しない場合もエラーにしません。
func (s *Service) RemoveEmployee(ctx context.Context, id int64) error {
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteByID(txCtx, id)
	})
}

// Preload はストアが空の場合に限り employees を作成し、作成件数を返します。
func (s *Service) Preload(ctx context.Context, employees []*Employee) (int, error) {
	existing, err := s.ListEmployees(ctx)
	if err != nil {
		return 0, fmt.Errorf("preload: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, e := range employees {
		created, err := s.CreateEmployee(ctx, e)
		if err != nil {
			return i, fmt.Errorf("preload %q: %w", e.Name, err)
		}
		s.logger.Info("preloaded employee",
			zap.Int64("employee_id", created.ID),
			zap.String("name", created.Name),
			zap.String("role", created.Role),
		)
	}
	return len(employees), nil
}

func (s *Service) find(ctx context.Context, id int64) (*Employee, error) {
	var found *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) save(ctx context.Context, employee *Employee) (*Employee, error) {
	var saved *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Save(txCtx, employee)
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}
	return saved, nil
}

// enrich は失敗を呼び出し元へ伝播させません。
// 呼び出し元のキャンセルも給与計算には伝えません。
func (s *Service) enrich(ctx context.Context, employee *Employee) {
	before := employee.Salary
	if err := s.enricher.Enrich(context.WithoutCancel(ctx), employee); err != nil {
		employee.Salary = before
		s.logger.Error("salary enrichment failed",
			zap.Int64("employee_id", employee.ID),
			zap.String("name", employee.Name),
			zap.Error(err),
		)
	}
}
