package user

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// VerifyUseCase 邮箱验证用例
type VerifyUseCase struct {
	userService user.Service
}

// NewVerifyUseCase 创建验证用例
func NewVerifyUseCase(userService user.Service) *VerifyUseCase {
	return &VerifyUseCase{userService: userService}
}

// VerifyRequest 验证请求
type VerifyRequest struct {
	Email string
	Code  string
}

// VerifyResponse 验证响应
type VerifyResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

// Execute 校验验证码并激活账号
// 验证码错误或过期返回ErrInvalidOTP,不透露具体原因(防枚举)
func (uc *VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	u, err := uc.userService.Verify(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}

	return &VerifyResponse{
		ID:         u.ID,
		Email:      u.Email,
		IsVerified: u.IsVerified,
	}, nil
}

// ResendOTPUseCase 重发验证码用例
// 已验证的账号直接返回成功,不再签发验证码
type ResendOTPUseCase struct {
	userService user.Service
	userRepo    user.Repository
	mailer      Mailer
	otpCfg      config.OTPConfig
}

// NewResendOTPUseCase 创建重发验证码用例
func NewResendOTPUseCase(
	userService user.Service,
	userRepo user.Repository,
	mailer Mailer,
	otpCfg config.OTPConfig,
) *ResendOTPUseCase {
	return &ResendOTPUseCase{
		userService: userService,
		userRepo:    userRepo,
		mailer:      mailer,
		otpCfg:      otpCfg,
	}
}

// Execute 重新签发并投递验证码
func (uc *ResendOTPUseCase) Execute(ctx context.Context, email string) error {
	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if u.IsVerified {
		return nil
	}

	code, err := uc.userService.IssueOTP(ctx, u, uc.otpCfg.FixedCode, uc.otpCfg.Expire)
	if err != nil {
		return err
	}
	if err := uc.mailer.SendOTP(ctx, u.Email, code); err != nil {
		log.Printf("验证码投递失败 email=%s: %v", u.Email, err)
	}
	return nil
}
