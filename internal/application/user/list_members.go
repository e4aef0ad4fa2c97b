package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Transactor 事务编排接口(mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RemoveMemberUseCase 注销读者账号用例(管理员)
type RemoveMemberUseCase struct {
	userRepo   user.Repository
	borrowRepo borrow.Repository
	tx         Transactor
}

// NewRemoveMemberUseCase 创建注销读者用例
func NewRemoveMemberUseCase(userRepo user.Repository, borrowRepo borrow.Repository, tx Transactor) *RemoveMemberUseCase {
	return &RemoveMemberUseCase{userRepo: userRepo, borrowRepo: borrowRepo, tx: tx}
}

// Execute 注销读者账号
//
// 业务规则：
// 1. 管理员账号不允许注销（防止误删最后一个管理员）
// 2. 有在借图书的读者不允许注销（先还书）
//
// 计数检查和删除在同一事务内,并通过用户行锁与借书事务互斥:
// 借书事务同样锁定借阅人行,因此"检查时无在借、删除前又借出"不可能发生
func (uc *RemoveMemberUseCase) Execute(ctx context.Context, memberID uint) error {
	return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定用户行,阻塞该读者的并发借书(含管理员代办)
		u, err := uc.userRepo.LockByID(txCtx, memberID)
		if err != nil {
			return err
		}
		if u.Role == user.RoleAdmin {
			return apperrors.ErrForbidden
		}

		// 持有行锁后计数才可信:此刻不可能有未提交的借书事务
		active, err := uc.borrowRepo.CountActiveByUser(txCtx, memberID)
		if err != nil {
			return err
		}
		if active > 0 {
			return user.ErrHasActiveBorrows
		}

		return uc.userRepo.Delete(txCtx, memberID)
	})
}

// ListMembersUseCase 读者列表查询用例(管理员)
type ListMembersUseCase struct {
	userRepo user.Repository
}

// NewListMembersUseCase 创建读者列表用例
func NewListMembersUseCase(userRepo user.Repository) *ListMembersUseCase {
	return &ListMembersUseCase{userRepo: userRepo}
}

// MemberItem 读者列表项DTO(不含密码和验证码)
type MemberItem struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Nickname   string `json:"nickname"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

// Execute 分页查询读者列表
func (uc *ListMembersUseCase) Execute(ctx context.Context, page, pageSize int) ([]MemberItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := uc.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]MemberItem, len(users))
	for i, u := range users {
		items[i] = MemberItem{
			ID:         u.ID,
			Email:      u.Email,
			Nickname:   u.Nickname,
			Role:       u.Role,
			IsVerified: u.IsVerified,
			CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return items, total, nil
}
