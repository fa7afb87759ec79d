package employee

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultSalaryLatency は給与計算サービス呼び出しを模した待ち時間です。
const DefaultSalaryLatency = time.Second

// Enricher は保存前に社員情報を補完する処理の抽象です。
type Enricher interface {
	Enrich(ctx context.Context, employee *Employee) error
}

// NoopEnricher は何もしない Enricher です。
type NoopEnricher struct{}

func (NoopEnricher) Enrich(context.Context, *Employee) error {
	return nil
}

// SalaryCalculator は固定の待ち時間の後に給与を割り当てます。
// 外部の給与計算サービスへの同期呼び出しを模しています。
type SalaryCalculator struct {
	latency time.Duration
	next    func() int64

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSalaryCalculator は SalaryCalculator を生成します。latency が 0 以下なら DefaultSalaryLatency を使います。
func NewSalaryCalculator(latency time.Duration) *SalaryCalculator {
	if latency <= 0 {
		latency = DefaultSalaryLatency
	}
	return &SalaryCalculator{
		latency: latency,
		next:    rand.Int64,
		closed:  make(chan struct{}),
	}
}

// Enrich は待ち時間の経過後に Salary を設定します。
// 途中で中断された場合は Salary を変更せずにエラーを返します。
func (c *SalaryCalculator) Enrich(ctx context.Context, employee *Employee) error {
	if employee == nil {
		return nil
	}

	timer := time.NewTimer(c.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-c.closed:
		return ErrEnrichmentInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}

	salary := c.next()
	employee.Salary = &salary
	return nil
}

// Close は実行中および以降の計算をすべて中断します。
func (c *SalaryCalculator) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}
