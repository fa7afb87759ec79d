package employee

import (
	"errors"
	"fmt"
)

var (
	// ErrEmployeeNotFound は指定 ID の社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("employee: invalid id")
	// ErrInvalidPayload はリクエスト本文を社員として解釈できない場合に返却されます。
	ErrInvalidPayload = errors.New("employee: invalid payload")
	// ErrDuplicateID は採番済みの ID と衝突した場合に返却されます。
	ErrDuplicateID = errors.New("employee: duplicate id")
	// ErrEnrichmentInterrupted は給与計算が中断された場合に返却されます。
	ErrEnrichmentInterrupted = errors.New("employee: enrichment interrupted")
)

// NotFoundError は存在しない ID を参照したことを表します。
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No Employee found with ID: %d", e.ID)
}

// Is は errors.Is(err, ErrEmployeeNotFound) を満たすために実装しています。
func (e *NotFoundError) Is(target error) bool {
	return target == ErrEmployeeNotFound
}
