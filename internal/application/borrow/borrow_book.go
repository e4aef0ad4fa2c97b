package borrow

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/metrics"
)

// Transactor 事务编排接口
// 设计说明:
// 1. mysql.TxManager实现此接口(生产环境)
// 2. 单元测试注入直通实现,配合内存仓储验证编排逻辑
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BorrowBookUseCase 借书用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、副本台账维护
type BorrowBookUseCase struct {
	borrowRepo borrow.Repository
	bookRepo   book.Repository
	userRepo   user.Repository
	tx         Transactor
	events     EventPublisher
}

// NewBorrowBookUseCase 创建借书用例
func NewBorrowBookUseCase(
	borrowRepo borrow.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	tx Transactor,
	events EventPublisher,
) *BorrowBookUseCase {
	return &BorrowBookUseCase{
		borrowRepo: borrowRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		tx:         tx,
		events:     events,
	}
}

// BorrowBookRequest 借书请求DTO
type BorrowBookRequest struct {
	BookID uint // 图书ID
	UserID uint // 借阅人用户ID(本人借阅时从JWT提取;管理员代办时为目标读者ID)
}

// BorrowBookResponse 借书响应DTO
type BorrowBookResponse struct {
	BorrowID   uint   `json:"borrow_id"`
	BorrowNo   string `json:"borrow_no"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Status     string `json:"status"`
	BorrowedAt string `json:"borrowed_at"`
}

// Execute 执行借书用例
// 教学重点:防止超借的完整流程
//
// 核心问题:并发借出同一副本
// 场景:某书只剩1个可借副本,两个读者同时借
// 错误实现:
//  1. 查询可借数 → 1
//  2. 判断够不够 → 够
//  3. 扣减可借数 → available = available - 1
//     结果:两个请求都通过了步骤2,最后借出2个副本(台账为负!)
//
// 正确实现:悲观锁
//  1. SELECT FOR UPDATE 锁定图书行
//  2. 判断可借副本是否>0
//  3. 扣减可借数,增加在借数(带条件UPDATE兜底)
//  4. 创建借阅记录
//  5. COMMIT释放锁
//
// 两个并发请求争抢最后一个副本时,必然一个成功一个返回ErrOutOfStock
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (*BorrowBookResponse, error) {
	start := time.Now()

	// 使用事务执行整个借书流程
	// 教学要点:事务保证原子性,要么全成功,要么全失败
	var result *borrow.Record
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定借阅人行,校验读者存在
		// ========================================
		// 管理员代办时UserID来自请求参数,必须确认目标读者真实存在,
		// 否则会留下一条永远无法归还的借阅记录
		// 加行锁而非普通查询:与注销读者的事务互斥,
		// 避免借书提交与账号注销交错(锁定顺序固定为用户行→图书行,不会死锁)
		if _, err := uc.userRepo.LockByID(txCtx, req.UserID); err != nil {
			return err
		}

		// ========================================
		// 步骤2:锁定图书行(悲观锁,防止并发超借)
		// ========================================
		// LockByID执行:SELECT * FROM books WHERE id = ? FOR UPDATE
		// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能访问该行
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤3:检查可借副本
		// ========================================
		// 教学要点:必须在锁定后检查,否则可能并发扣减导致台账为负
		if !b.IsAvailable() {
			return book.ErrOutOfStock
		}

		// ========================================
		// 步骤4:扣减可借数,增加在借数
		// ========================================
		// 带条件UPDATE:available_copies + (-1) >= 0
		// 持有行锁时条件必然满足,这里是防止绕过锁路径的最后防线
		if err := uc.bookRepo.AdjustCopies(txCtx, req.BookID, -1, +1); err != nil {
			return err
		}

		// ========================================
		// 步骤5:创建借阅记录
		// ========================================
		borrowNo := borrow.GenerateBorrowNo()
		record := borrow.NewRecord(borrowNo, req.BookID, req.UserID)
		if err := uc.borrowRepo.Create(txCtx, record); err != nil {
			// 创建失败,整个事务回滚,副本计数不会减少
			return err
		}

		// ========================================
		// 步骤6:返回借阅记录(事务自动COMMIT)
		// ========================================
		result = record
		return nil
	})

	observeBorrowTx(start)

	if err != nil {
		countBorrowFailure(err)
		return nil, err
	}
	if metrics.BorrowsTotal != nil {
		metrics.IncCounter(metrics.BorrowsTotal)
	}

	// 事务提交后发布借阅事件(失败不回滚借阅,只记录日志)
	uc.publishEvent(EventBorrowCreated, result, "created")

	// 构建响应DTO
	return &BorrowBookResponse{
		BorrowID:   result.ID,
		BorrowNo:   result.BorrowNo,
		BookID:     result.BookID,
		UserID:     result.UserID,
		Status:     result.Status.String(),
		BorrowedAt: result.BorrowedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// publishEvent 发布借阅事件
func (uc *BorrowBookUseCase) publishEvent(routingKey string, record *borrow.Record, action string) {
	if uc.events == nil {
		return
	}
	event := Event{
		BorrowID:  record.ID,
		BorrowNo:  record.BorrowNo,
		BookID:    record.BookID,
		UserID:    record.UserID,
		Action:    action,
		Timestamp: time.Now(),
	}
	if err := uc.events.Publish(routingKey, event); err != nil {
		log.Printf("借阅事件发布失败(不影响借阅结果): %v", err)
	}
}
