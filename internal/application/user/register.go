package user

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. Application层负责用例编排，协调多个领域服务
// 2. 注册成功后签发验证码并投递，用户验证邮箱后才能登录
// 3. 验证码投递失败不回滚注册，用户可通过重发接口再次获取
type RegisterUseCase struct {
	userService user.Service
	mailer      Mailer
	otpCfg      config.OTPConfig
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, mailer Mailer, otpCfg config.OTPConfig) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		mailer:      mailer,
		otpCfg:      otpCfg,
	}
}

// Execute 执行注册
// 返回：RegisterResponse（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	// 1. 调用领域服务执行注册（新用户处于未验证状态）
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	// 2. 签发验证码并投递
	code, err := uc.userService.IssueOTP(ctx, u, uc.otpCfg.FixedCode, uc.otpCfg.Expire)
	if err != nil {
		return nil, err
	}
	if err := uc.mailer.SendOTP(ctx, u.Email, code); err != nil {
		// 投递失败不影响注册结果，用户可以请求重发
		log.Printf("验证码投递失败 email=%s: %v", u.Email, err)
	}

	// 3. 领域实体 → 应用层DTO
	// 说明：不直接返回领域实体，而是转换为DTO
	// 好处：领域模型变更不影响API契约
	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
	}, nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应
// 说明：不返回密码字段（安全考虑）
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
