package borrow

import (
	"time"
)

// Status 借阅状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
type Status int

const (
	StatusActive   Status = 1 // 在借
	StatusReturned Status = 2 // 已归还
)

// String 返回状态的API字符串表示(同时用于日志)
// 与列表接口的status过滤参数取值保持一致
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Record 借阅记录实体(聚合根)
// 教学要点:
// 1. 一条记录对应一次"某用户借某本书的一个副本"
// 2. BorrowNo作为业务单号(全局唯一,时间有序,凭条/对账用)
// 3. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
// 4. ReturnedAt使用指针:nil表示未归还,与Status互为印证
type Record struct {
	ID         uint
	BorrowNo   string     // 借阅单号(业务主键,全局唯一)
	BookID     uint       // 图书ID
	UserID     uint       // 借阅人用户ID
	Status     Status     // 借阅状态
	BorrowedAt time.Time  // 借出时间
	ReturnedAt *time.Time // 归还时间(nil表示在借)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewRecord 创建借阅记录(工厂方法)
// 初始状态为在借,借出时间取当前时间
func NewRecord(borrowNo string, bookID, userID uint) *Record {
	now := time.Now()
	return &Record{
		BorrowNo:   borrowNo,
		BookID:     bookID,
		UserID:     userID,
		Status:     StatusActive,
		BorrowedAt: now,
		ReturnedAt: nil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsActive 是否在借
func (r *Record) IsActive() bool {
	return r.Status == StatusActive
}

// IsOwnedBy 检查借阅记录是否属于指定用户
// 教学要点:权限校验,防止用户归还/查看他人的借阅
func (r *Record) IsOwnedBy(userID uint) bool {
	return r.UserID == userID
}

// Close 归还(领域行为)
// 业务规则:
// 1. 只有在借状态可以归还,重复归还返回ErrAlreadyReturned
// 2. 归还时间取当前时间,状态转为已归还
// 3. 归还是终态,没有后续状态
func (r *Record) Close() error {
	if r.Status == StatusReturned {
		return ErrAlreadyReturned
	}
	now := time.Now()
	r.Status = StatusReturned
	r.ReturnedAt = &now
	r.UpdatedAt = now
	return nil
}
