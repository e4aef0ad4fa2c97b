package user

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// BootstrapUseCase 管理员引导用例
// 设计说明:
// 1. 系统冷启动时没有任何管理员,无法通过接口提升角色
// 2. 启动时按配置确保管理员账号存在(幂等:已存在则跳过)
// 3. 管理员账号直接标记为已验证,不走验证码流程
type BootstrapUseCase struct {
	userRepo user.Repository
}

// NewBootstrapUseCase 创建引导用例
func NewBootstrapUseCase(userRepo user.Repository) *BootstrapUseCase {
	return &BootstrapUseCase{userRepo: userRepo}
}

// EnsureAdmin 确保配置的管理员账号存在
func (uc *BootstrapUseCase) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Println("未配置管理员账号,跳过引导")
		return nil
	}

	existing, err := uc.userRepo.FindByEmail(ctx, cfg.Email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		// 已存在则不覆盖密码,只确保角色正确
		if existing.Role != user.RoleAdmin {
			existing.Role = user.RoleAdmin
			existing.IsVerified = true
			return uc.userRepo.Update(ctx, existing)
		}
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), 12)
	if err != nil {
		return apperrors.Wrap(err, "管理员密码加密失败")
	}

	nickname := cfg.Username
	if nickname == "" {
		nickname = "admin"
	}

	admin := user.NewUser(cfg.Email, string(hashed), nickname)
	admin.Role = user.RoleAdmin
	admin.IsVerified = true

	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("管理员账号已创建 email=%s", cfg.Email)
	return nil
}
