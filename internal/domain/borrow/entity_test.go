package borrow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord("BRW1699248000123456", 10, 42)

	assert.Equal(t, StatusActive, r.Status)
	assert.True(t, r.IsActive())
	assert.Nil(t, r.ReturnedAt, "新借阅记录没有归还时间")
	assert.False(t, r.BorrowedAt.IsZero())
}

func TestRecord_Close(t *testing.T) {
	t.Run("在借记录归还成功", func(t *testing.T) {
		r := NewRecord("BRW1699248000123456", 10, 42)

		err := r.Close()
		require.NoError(t, err)

		assert.Equal(t, StatusReturned, r.Status)
		assert.False(t, r.IsActive())
		require.NotNil(t, r.ReturnedAt)
		assert.False(t, r.ReturnedAt.Before(r.BorrowedAt), "归还时间不早于借出时间")
	})

	t.Run("重复归还返回ErrAlreadyReturned", func(t *testing.T) {
		r := NewRecord("BRW1699248000123456", 10, 42)
		require.NoError(t, r.Close())
		first := *r.ReturnedAt

		err := r.Close()
		assert.ErrorIs(t, err, ErrAlreadyReturned)
		assert.Equal(t, first, *r.ReturnedAt, "失败的归还不应改变归还时间")
	})
}

func TestRecord_IsOwnedBy(t *testing.T) {
	r := NewRecord("BRW1699248000123456", 10, 42)

	assert.True(t, r.IsOwnedBy(42))
	assert.False(t, r.IsOwnedBy(7), "他人不拥有此借阅记录")
}

func TestGenerateBorrowNo(t *testing.T) {
	no := GenerateBorrowNo()

	assert.True(t, strings.HasPrefix(no, "BRW"))
	assert.GreaterOrEqual(t, len(no), 19, "BRW+10位时间戳+6位随机数")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "returned", StatusReturned.String())
	assert.Equal(t, "unknown", Status(99).String())
}
