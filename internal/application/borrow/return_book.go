package borrow

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/metrics"
)

// ReturnBookUseCase 还书用例
// 教学要点:
// 1. 归还与副本回补必须在同一事务中
// 2. 所有权校验:只能归还本人的借阅记录,管理员也不能代还
// 3. 重复归还的拦截有两层:实体Close()校验 + UPDATE的status条件
type ReturnBookUseCase struct {
	borrowRepo borrow.Repository
	bookRepo   book.Repository
	tx         Transactor
	events     EventPublisher
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(
	borrowRepo borrow.Repository,
	bookRepo book.Repository,
	tx Transactor,
	events EventPublisher,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		borrowRepo: borrowRepo,
		bookRepo:   bookRepo,
		tx:         tx,
		events:     events,
	}
}

// ReturnBookRequest 还书请求DTO
type ReturnBookRequest struct {
	BorrowID uint // 借阅记录ID
	UserID   uint // 当前登录用户ID(从JWT提取)
}

// ReturnBookResponse 还书响应DTO
type ReturnBookResponse struct {
	BorrowID   uint   `json:"borrow_id"`
	BorrowNo   string `json:"borrow_no"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Status     string `json:"status"`
	ReturnedAt string `json:"returned_at"`
}

// Execute 执行还书用例
// 流程:
//  1. 查询借阅记录,校验所有权
//  2. SELECT FOR UPDATE 锁定图书行(与借书用同一把锁,避免台账竞争)
//  3. 关闭借阅记录(带status条件的UPDATE,并发归还只有一个生效)
//  4. 回补可借数,扣减在借数
//  5. COMMIT释放锁
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*ReturnBookResponse, error) {
	start := time.Now()

	var result *borrow.Record
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:查询借阅记录,校验所有权
		// ========================================
		record, err := uc.borrowRepo.FindByID(txCtx, req.BorrowID)
		if err != nil {
			return err
		}

		// 教学要点:先校验所有权再校验状态
		// 他人的借阅记录一律返回ErrNotOwner,不泄露其归还状态
		if !record.IsOwnedBy(req.UserID) {
			return borrow.ErrNotOwner
		}

		// ========================================
		// 步骤2:锁定图书行
		// ========================================
		// 与借书流程竞争同一把行锁,副本台账的修改全部串行化
		b, err := uc.bookRepo.LockByID(txCtx, record.BookID)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤3:关闭借阅记录
		// ========================================
		// 实体校验:已归还的记录返回ErrAlreadyReturned
		if err := record.Close(); err != nil {
			return err
		}
		// UPDATE带status=在借条件,数据库层面兜底"只归还一次"
		if err := uc.borrowRepo.Update(txCtx, record); err != nil {
			return err
		}

		// ========================================
		// 步骤4:回补可借数,扣减在借数
		// ========================================
		// 回补前校验台账:可借数已满说明台账错乱,宁可失败也不制造 available > total
		if b.AvailableCopies >= b.TotalCopies {
			return book.ErrLedgerCorrupted
		}
		if err := uc.bookRepo.AdjustCopies(txCtx, record.BookID, +1, -1); err != nil {
			return err
		}

		result = record
		return nil
	})

	observeBorrowTx(start)

	if err != nil {
		countReturnFailure(err)
		return nil, err
	}
	if metrics.ReturnsTotal != nil {
		metrics.IncCounter(metrics.ReturnsTotal)
	}

	// 事务提交后发布归还事件
	uc.publishEvent(EventBorrowReturned, result)

	return &ReturnBookResponse{
		BorrowID:   result.ID,
		BorrowNo:   result.BorrowNo,
		BookID:     result.BookID,
		UserID:     result.UserID,
		Status:     result.Status.String(),
		ReturnedAt: result.ReturnedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// publishEvent 发布归还事件
func (uc *ReturnBookUseCase) publishEvent(routingKey string, record *borrow.Record) {
	if uc.events == nil {
		return
	}
	event := Event{
		BorrowID:  record.ID,
		BorrowNo:  record.BorrowNo,
		BookID:    record.BookID,
		UserID:    record.UserID,
		Action:    "returned",
		Timestamp: time.Now(),
	}
	if err := uc.events.Publish(routingKey, event); err != nil {
		log.Printf("归还事件发布失败(不影响归还结果): %v", err)
	}
}
