package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// ProfileUseCase 查询当前用户资料用例
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建查询资料用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// ProfileResponse 用户资料响应
type ProfileResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Nickname   string `json:"nickname"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

// Execute 查询用户资料
func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		ID:         u.ID,
		Email:      u.Email,
		Nickname:   u.Nickname,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
