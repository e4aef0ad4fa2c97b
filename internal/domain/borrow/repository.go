package borrow

import (
	"context"
)

// Repository 借阅仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建借阅记录
	// 教学要点:与图书副本扣减必须在同一事务中执行
	Create(ctx context.Context, record *Record) error

	// FindByID 根据ID查找借阅记录
	FindByID(ctx context.Context, id uint) (*Record, error)

	// FindByBorrowNo 根据借阅单号查找
	FindByBorrowNo(ctx context.Context, borrowNo string) (*Record, error)

	// Update 更新借阅记录(主要用于归还)
	Update(ctx context.Context, record *Record) error

	// ListByBook 查询某本书的借阅历史
	// 按创建顺序返回(含已归还记录),支持分页
	ListByBook(ctx context.Context, bookID uint, page, pageSize int) ([]*Record, int64, error)

	// ListByUser 查询用户的借阅记录列表
	// 教学要点:支持分页,避免一次性查询大量数据
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*Record, int64, error)

	// List 查询全部借阅记录(管理员视角),支持按状态过滤
	// status为nil表示不过滤
	List(ctx context.Context, status *Status, page, pageSize int) ([]*Record, int64, error)

	// CountActiveByBook 统计某本书的在借记录数
	// 用于删除图书前的冲突检查,以及台账一致性核对
	CountActiveByBook(ctx context.Context, bookID uint) (int64, error)

	// CountActiveByUser 统计某个读者的在借记录数
	// 用于注销读者前的冲突检查
	CountActiveByUser(ctx context.Context, userID uint) (int64, error)
}
