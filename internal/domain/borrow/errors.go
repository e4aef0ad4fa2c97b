package borrow

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrBorrowNotFound 借阅记录不存在
	ErrBorrowNotFound = apperrors.ErrBorrowNotFound

	// ErrAlreadyReturned 重复归还
	ErrAlreadyReturned = apperrors.ErrAlreadyReturned

	// ErrNotOwner 只能归还本人的借阅记录
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "只能归还本人的借阅记录")

	// ErrBorrowNoGenerate 借阅单号生成失败
	ErrBorrowNoGenerate = apperrors.New(apperrors.ErrCodeInternal, "借阅单号生成失败")
)
