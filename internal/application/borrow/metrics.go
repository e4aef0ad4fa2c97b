package borrow

import (
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/metrics"
)

// 指标辅助:metrics未初始化时(单元测试)直接跳过

// observeBorrowTx 记录借阅/归还事务耗时(含行锁等待)
func observeBorrowTx(start time.Time) {
	if metrics.BorrowTxDuration == nil {
		return
	}
	metrics.ObserveHistogram(metrics.BorrowTxDuration, time.Since(start).Seconds())
}

// countBorrowFailure 按失败原因计数借书失败
func countBorrowFailure(err error) {
	if metrics.BorrowsFailedTotal == nil {
		return
	}
	metrics.IncCounterVec(metrics.BorrowsFailedTotal, map[string]string{
		"reason": failureReason(err),
	})
}

// countReturnFailure 按失败原因计数归还失败
func countReturnFailure(err error) {
	if metrics.ReturnsFailedTotal == nil {
		return
	}
	metrics.IncCounterVec(metrics.ReturnsFailedTotal, map[string]string{
		"reason": failureReason(err),
	})
}

// failureReason 错误 → 指标label
// label基数必须有界,未知错误统一归为other
func failureReason(err error) string {
	switch {
	case errors.Is(err, book.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, book.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, borrow.ErrBorrowNotFound):
		return "borrow_not_found"
	case errors.Is(err, borrow.ErrAlreadyReturned):
		return "already_returned"
	case errors.Is(err, borrow.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, book.ErrLedgerCorrupted):
		return "ledger_corrupted"
	default:
		return "other"
	}
}
