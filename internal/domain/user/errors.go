package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.ErrUserNotFound

	// ErrInvalidOTP 验证码无效或已过期
	ErrInvalidOTP = apperrors.ErrInvalidOTP

	// ErrNotVerified 邮箱未验证
	ErrNotVerified = apperrors.ErrNotVerified

	// ErrHasActiveBorrows 读者仍有在借图书,不能注销
	ErrHasActiveBorrows = apperrors.New(apperrors.ErrCodeConflict, "该读者仍有未归还的图书")
)
