package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u := NewUser("reader@example.com", "$2a$12$hash", "小明")

	assert.Equal(t, RoleUser, u.Role, "新用户默认为普通读者")
	assert.False(t, u.IsVerified)
	assert.False(t, u.IsAdmin())
}

func TestUser_VerifyOTP(t *testing.T) {
	now := time.Now()

	t.Run("验证码正确且未过期", func(t *testing.T) {
		u := NewUser("reader@example.com", "hash", "小明")
		u.SetOTP("123456", now.Add(10*time.Minute))

		err := u.VerifyOTP("123456", now)
		require.NoError(t, err)

		assert.True(t, u.IsVerified)
		assert.Empty(t, u.OTP, "验证通过后清空验证码")
		assert.Nil(t, u.OTPExpiresAt)
	})

	t.Run("验证码错误", func(t *testing.T) {
		u := NewUser("reader@example.com", "hash", "小明")
		u.SetOTP("123456", now.Add(10*time.Minute))

		err := u.VerifyOTP("654321", now)
		assert.ErrorIs(t, err, ErrInvalidOTP)
		assert.False(t, u.IsVerified)
	})

	t.Run("验证码已过期", func(t *testing.T) {
		u := NewUser("reader@example.com", "hash", "小明")
		u.SetOTP("123456", now.Add(-time.Minute))

		err := u.VerifyOTP("123456", now)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("未下发验证码时校验失败", func(t *testing.T) {
		u := NewUser("reader@example.com", "hash", "小明")

		err := u.VerifyOTP("", now)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})
}
