package user

import (
	"context"
	"log"
)

// Mailer 验证码投递接口
// 设计说明:
// 1. 领域层只负责生成验证码,投递方式是基础设施关注点
// 2. 开发/演示环境用LogMailer打到日志,生产环境可换成SMTP实现
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogMailer 把验证码写进日志的Mailer实现(开发环境)
type LogMailer struct{}

// NewLogMailer 创建日志Mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendOTP 输出验证码到日志
func (m *LogMailer) SendOTP(ctx context.Context, email, code string) error {
	log.Printf("[mailer] 验证码已发送 email=%s code=%s", email, code)
	return nil
}
