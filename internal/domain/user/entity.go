package user

import (
	"time"
)

// Role 用户角色
const (
	RoleUser  = "user"  // 普通读者
	RoleAdmin = "admin" // 图书管理员
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，包含用户的核心属性
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 4. OTP验证码存储在用户行上，注册后邮箱验证通过才能登录
type User struct {
	ID           uint
	Email        string
	Password     string // bcrypt哈希值
	Nickname     string
	Role         string // user | admin
	IsVerified   bool   // 邮箱是否已验证
	OTP          string // 当前验证码（已验证后清空）
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
// 新用户默认为普通读者，未验证状态
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:      email,
		Password:   hashedPassword,
		Nickname:   nickname,
		Role:       RoleUser,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetOTP 下发验证码（领域行为）
func (u *User) SetOTP(code string, expiresAt time.Time) {
	u.OTP = code
	u.OTPExpiresAt = &expiresAt
	u.UpdatedAt = time.Now()
}

// VerifyOTP 校验验证码（领域行为）
// 业务规则：验证码匹配且未过期才算通过，通过后清空验证码并标记已验证
func (u *User) VerifyOTP(code string, now time.Time) error {
	if u.OTP == "" || u.OTP != code {
		return ErrInvalidOTP
	}
	if u.OTPExpiresAt == nil || now.After(*u.OTPExpiresAt) {
		return ErrInvalidOTP
	}
	u.IsVerified = true
	u.OTP = ""
	u.OTPExpiresAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
