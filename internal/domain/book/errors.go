package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.ErrISBNDuplicate

	// ErrInvalidCopies 无效的副本数
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidParams, "副本数不能为负数")

	// ErrOutOfStock 无可借副本
	ErrOutOfStock = apperrors.ErrOutOfStock

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrLedgerCorrupted 副本台账不一致(可借/在借/总数对不上)
	// 服务端错误,出现即说明写路径有bug或数据被绕过应用修改
	ErrLedgerCorrupted = apperrors.New(apperrors.ErrCodeInvariant, "图书副本台账不一致")

	// ErrHasActiveBorrows 仍有在借记录,不能删除
	ErrHasActiveBorrows = apperrors.New(apperrors.ErrCodeConflict, "该图书仍有未归还的借阅记录")
)
