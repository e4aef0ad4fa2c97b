package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// Transactor 事务编排接口(mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ManageBookUseCase 馆藏维护用例(管理员)
// 设计说明:
// 1. 更新副本总数会与借书/还书并发竞争同一台账,必须走行锁
// 2. 下架前要确认没有未归还的借阅,计数和删除放在同一事务内
type ManageBookUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
	tx         Transactor
}

// NewManageBookUseCase 创建馆藏维护用例
func NewManageBookUseCase(
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	tx Transactor,
) *ManageBookUseCase {
	return &ManageBookUseCase{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		tx:         tx,
	}
}

// UpdateBookRequest 更新馆藏请求DTO
// TotalCopies为nil表示不调整副本总数
type UpdateBookRequest struct {
	ID          uint
	Title       string
	Author      string
	Publisher   string
	CoverURL    string
	Description string
	TotalCopies *int
}

// UpdateBookResponse 更新馆藏响应DTO
type UpdateBookResponse struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	BorrowedCopies  int    `json:"borrowed_copies"`
	CoverURL        string `json:"cover_url"`
	Description     string `json:"description"`
	UpdatedAt       string `json:"updated_at"`
}

// UpdateBook 更新图书信息与副本总数
// 教学要点:为什么更新副本总数要加行锁?
// 场景:管理员把总数从5改成3,同时有读者在借书
// 不加锁时,两边各自按旧值计算再写回,台账可能出现
// available > total 或负数。锁定后串行执行,收缩规则:
//   available = clamp(available + delta, 0, newTotal)
//   borrowed  = newTotal - available
func (uc *ManageBookUseCase) UpdateBook(ctx context.Context, req UpdateBookRequest) (*UpdateBookResponse, error) {
	var updated *book.Book
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定图书行,与借书/还书的台账修改互斥
		b, err := uc.bookRepo.LockByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		b.UpdateInfo(req.Title, req.Author, req.Publisher, req.CoverURL, req.Description)

		if req.TotalCopies != nil {
			if err := b.AdjustTotalCopies(*req.TotalCopies); err != nil {
				return err
			}
		}

		// 持有行锁,整行覆盖写是安全的
		if err := uc.bookRepo.Update(txCtx, b); err != nil {
			return err
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateBookResponse{
		ID:              updated.ID,
		ISBN:            updated.ISBN,
		Title:           updated.Title,
		Author:          updated.Author,
		Publisher:       updated.Publisher,
		TotalCopies:     updated.TotalCopies,
		AvailableCopies: updated.AvailableCopies,
		BorrowedCopies:  updated.BorrowedCopies,
		CoverURL:        updated.CoverURL,
		Description:     updated.Description,
		UpdatedAt:       updated.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// DeleteBook 下架图书
// 业务规则:存在未归还的借阅记录时拒绝下架,返回ErrHasActiveBorrows
// 计数检查和删除在同一事务内,避免检查后、删除前又有人借出
func (uc *ManageBookUseCase) DeleteBook(ctx context.Context, id uint) error {
	return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定图书行,阻塞并发的借书请求
		if _, err := uc.bookRepo.LockByID(txCtx, id); err != nil {
			return err
		}

		active, err := uc.borrowRepo.CountActiveByBook(txCtx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return book.ErrHasActiveBorrows
		}

		return uc.bookRepo.Delete(txCtx, id)
	})
}
