package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/domain/borrow"
)

// ListBorrowsUseCase 借阅记录查询用例
// 三个入口:
// 1. 读者查看本人借阅记录
// 2. 管理员查看全部借阅记录(可按状态过滤)
// 3. 任何人查看某本书的借阅历史(按创建顺序)
type ListBorrowsUseCase struct {
	borrowRepo borrow.Repository
}

// NewListBorrowsUseCase 创建借阅查询用例
func NewListBorrowsUseCase(borrowRepo borrow.Repository) *ListBorrowsUseCase {
	return &ListBorrowsUseCase{borrowRepo: borrowRepo}
}

// BorrowItem 借阅记录DTO
type BorrowItem struct {
	BorrowID   uint   `json:"borrow_id"`
	BorrowNo   string `json:"borrow_no"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Status     string `json:"status"`
	BorrowedAt string `json:"borrowed_at"`
	ReturnedAt string `json:"returned_at,omitempty"` // 空表示在借
}

// ListByUser 查询用户的借阅记录
func (uc *ListBorrowsUseCase) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]BorrowItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	records, total, err := uc.borrowRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	return toBorrowItems(records), total, nil
}

// ListAll 查询全部借阅记录(管理员)
// statusFilter: "active" | "returned" | ""(全部)
func (uc *ListBorrowsUseCase) ListAll(ctx context.Context, statusFilter string, page, pageSize int) ([]BorrowItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	var status *borrow.Status
	switch statusFilter {
	case "active":
		s := borrow.StatusActive
		status = &s
	case "returned":
		s := borrow.StatusReturned
		status = &s
	}

	records, total, err := uc.borrowRepo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	return toBorrowItems(records), total, nil
}

// BookHistory 查询某本书的借阅历史(含已归还,按创建顺序)
func (uc *ListBorrowsUseCase) BookHistory(ctx context.Context, bookID uint, page, pageSize int) ([]BorrowItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	records, total, err := uc.borrowRepo.ListByBook(ctx, bookID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	return toBorrowItems(records), total, nil
}

// =========================================
// 辅助函数
// =========================================

// normalizePage 分页参数兜底
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// toBorrowItems 领域实体 → DTO
func toBorrowItems(records []*borrow.Record) []BorrowItem {
	items := make([]BorrowItem, len(records))
	for i, r := range records {
		item := BorrowItem{
			BorrowID:   r.ID,
			BorrowNo:   r.BorrowNo,
			BookID:     r.BookID,
			UserID:     r.UserID,
			Status:     r.Status.String(),
			BorrowedAt: r.BorrowedAt.Format("2006-01-02 15:04:05"),
		}
		if r.ReturnedAt != nil {
			item.ReturnedAt = r.ReturnedAt.Format("2006-01-02 15:04:05")
		}
		items[i] = item
	}
	return items
}
