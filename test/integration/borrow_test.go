package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBorrowReturn 测试借还书完整流程
//
// 测试场景：
// 1. 借书成功，可借数量减少
// 2. 还书成功，可借数量恢复
// 3. 重复还书被拒绝（幂等性）
// 4. 归还他人的借阅记录被拒绝
// 5. 无库存时借书失败
func TestBorrowReturn(t *testing.T) {
	requireServer(t)

	adminToken := AdminToken(t)

	t.Run("借书成功并减少可借数量", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "借阅流程测试", 3)
		_, token := RegisterTestUser(t, "borrower")

		borrow := BorrowTestBook(t, token, bookID)
		assert.NotZero(t, borrow.BorrowID, "借阅ID应该大于0")
		assert.NotEmpty(t, borrow.BorrowNo, "应该生成借阅单号")
		assert.Equal(t, "active", borrow.Status, "新借阅记录状态应该是active")

		book := GetTestBook(t, bookID)
		assert.Equal(t, 2, book.AvailableCopies, "借出后可借数量应该减1")
		assert.Equal(t, 1, book.BorrowedCopies, "借出后在借数量应该加1")

		t.Logf("✓ 借书成功，单号: %s", borrow.BorrowNo)
	})

	t.Run("还书成功并恢复可借数量", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "归还流程测试", 2)
		_, token := RegisterTestUser(t, "returner")

		borrow := BorrowTestBook(t, token, bookID)

		resp := PutJSON(t, fmt.Sprintf("%s/borrows/%d/return", BaseURL, borrow.BorrowID), nil, token)
		require.Equal(t, 0, resp.Code, "还书失败: %s", resp.Message)

		var returned BorrowData
		err := json.Unmarshal(resp.Data, &returned)
		require.NoError(t, err, "解析归还响应失败")
		assert.Equal(t, "returned", returned.Status, "归还后状态应该是returned")
		assert.NotEmpty(t, returned.ReturnedAt, "归还后应该记录归还时间")

		book := GetTestBook(t, bookID)
		assert.Equal(t, 2, book.AvailableCopies, "归还后可借数量应该恢复")
		assert.Equal(t, 0, book.BorrowedCopies, "归还后在借数量应该归零")

		t.Logf("✓ 还书成功")
	})

	t.Run("重复还书被拒绝", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "重复归还测试", 1)
		_, token := RegisterTestUser(t, "double_return")

		borrow := BorrowTestBook(t, token, bookID)

		resp1 := PutJSON(t, fmt.Sprintf("%s/borrows/%d/return", BaseURL, borrow.BorrowID), nil, token)
		require.Equal(t, 0, resp1.Code, "第一次还书应该成功")

		// 教学说明：重复还书的危害
		// 如果不做状态校验，第二次归还会再次执行 available_copies+1，
		// 导致可借数量超过总藏书量，账目被破坏
		resp2 := PutJSON(t, fmt.Sprintf("%s/borrows/%d/return", BaseURL, borrow.BorrowID), nil, token)
		assert.NotEqual(t, 0, resp2.Code, "重复还书应该被拒绝")

		book := GetTestBook(t, bookID)
		assert.Equal(t, 1, book.AvailableCopies, "重复还书不应影响可借数量")

		t.Logf("✓ 重复还书正确被拒绝: %s", resp2.Message)
	})

	t.Run("归还他人借阅记录被拒绝", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "归属校验测试", 1)
		_, ownerToken := RegisterTestUser(t, "record_owner")
		_, otherToken := RegisterTestUser(t, "other_member")

		borrow := BorrowTestBook(t, ownerToken, bookID)

		resp := PutJSON(t, fmt.Sprintf("%s/borrows/%d/return", BaseURL, borrow.BorrowID), nil, otherToken)
		assert.NotEqual(t, 0, resp.Code, "归还他人的记录应该被拒绝")

		book := GetTestBook(t, bookID)
		assert.Equal(t, 0, book.AvailableCopies, "越权归还不应影响账目")

		t.Logf("✓ 越权归还正确被拒绝: %s", resp.Message)
	})

	t.Run("无库存时借书失败", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "库存耗尽测试", 1)
		_, token1 := RegisterTestUser(t, "stock_user1")
		_, token2 := RegisterTestUser(t, "stock_user2")

		BorrowTestBook(t, token1, bookID)

		resp := PostJSON(t, BaseURL+"/borrows", map[string]interface{}{"book_id": bookID}, token2)

		// 40001: 可借副本不足
		assert.Equal(t, 40001, resp.Code, "无库存时应该返回40001")

		t.Logf("✓ 无库存借书正确返回错误: %s", resp.Message)
	})

	t.Run("管理员代办借书读者不存在被拒绝", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "代办借书测试", 2)

		// 管理员指定一个不存在的读者ID,不能留下无主借阅记录
		resp := PostJSON(t, BaseURL+"/borrows", map[string]interface{}{
			"book_id": bookID,
			"user_id": 99999999,
		}, adminToken)

		// 40401: 用户不存在
		assert.Equal(t, 40401, resp.Code, "读者不存在时应该返回40401")

		book := GetTestBook(t, bookID)
		assert.Equal(t, 2, book.AvailableCopies, "借书失败不应扣减可借数")
		assert.Equal(t, 0, book.BorrowedCopies)

		t.Logf("✓ 代办借书正确校验读者: %s", resp.Message)
	})
}

// TestBorrowQuery 测试借阅查询功能
func TestBorrowQuery(t *testing.T) {
	requireServer(t)

	adminToken := AdminToken(t)

	t.Run("查询我的借阅记录", func(t *testing.T) {
		bookID1 := CreateTestBook(t, adminToken, "我的借阅1", 1)
		bookID2 := CreateTestBook(t, adminToken, "我的借阅2", 1)
		_, token := RegisterTestUser(t, "my_borrows")

		BorrowTestBook(t, token, bookID1)
		borrow2 := BorrowTestBook(t, token, bookID2)

		resp := PutJSON(t, fmt.Sprintf("%s/borrows/%d/return", BaseURL, borrow2.BorrowID), nil, token)
		require.Equal(t, 0, resp.Code, "还书失败")

		listResp := GetJSON(t, BaseURL+"/borrows/my", token)
		require.Equal(t, 0, listResp.Code, "查询借阅记录失败: %s", listResp.Message)

		var listData struct {
			List  []BorrowData `json:"list"`
			Total int64        `json:"total"`
		}
		err := json.Unmarshal(listResp.Data, &listData)
		require.NoError(t, err, "解析借阅列表失败")

		assert.Equal(t, int64(2), listData.Total, "应该有2条借阅记录")

		t.Logf("✓ 我的借阅记录查询成功，共%d条", listData.Total)
	})

	t.Run("管理员按状态查询全部借阅", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/admin/borrows?status=active&page=1&page_size=10", adminToken)
		require.Equal(t, 0, resp.Code, "管理员查询借阅失败: %s", resp.Message)

		var listData struct {
			List []BorrowData `json:"list"`
		}
		err := json.Unmarshal(resp.Data, &listData)
		require.NoError(t, err, "解析借阅列表失败")

		for _, b := range listData.List {
			assert.Equal(t, "active", b.Status, "按active过滤时不应返回已归还记录")
		}

		t.Logf("✓ 管理员借阅查询成功")
	})

	t.Run("普通用户查询全部借阅被拒绝", func(t *testing.T) {
		_, token := RegisterTestUser(t, "no_admin_query")

		resp := GetJSON(t, BaseURL+"/admin/borrows", token)
		assert.Equal(t, 40104, resp.Code, "普通用户应该被权限中间件拦截")

		t.Logf("✓ 普通用户查询全部借阅正确被拒绝")
	})
}

// TestBorrowConcurrency 测试并发借书（防超借核心场景）
//
// 测试设计：
// - 馆藏：5本
// - 并发：10个读者同时借书
// - 预期结果：恰好5个成功，5个失败，最终可借数量为0
//
// 教学说明：为什么这个测试重要？
// 如果没有悲观锁（SELECT FOR UPDATE），并发请求会同时读到
// available_copies=5，然后各自扣减，最终借出远超5本。
// 这个测试验证了行锁+条件更新的防超借方案在真实数据库下有效。
func TestBorrowConcurrency(t *testing.T) {
	requireServer(t)

	const (
		totalCopies = 5
		concurrency = 10
	)

	adminToken := AdminToken(t)
	bookID := CreateTestBook(t, adminToken, "并发借阅测试", totalCopies)

	// 准备10个已验证的读者账号
	tokens := make([]string, concurrency)
	for i := 0; i < concurrency; i++ {
		_, tokens[i] = RegisterTestUser(t, fmt.Sprintf("concurrent_%d", i))
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successCount int
		failCount    int
	)

	t.Logf("开始并发测试：%d本馆藏，%d个并发请求", totalCopies, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()

			resp := PostJSON(t, BaseURL+"/borrows", map[string]interface{}{"book_id": bookID}, token)

			mu.Lock()
			defer mu.Unlock()
			if resp.Code == 0 {
				successCount++
			} else {
				failCount++
			}
		}(tokens[i])
	}

	wg.Wait()

	t.Logf("并发结果：成功%d，失败%d", successCount, failCount)

	assert.Equal(t, totalCopies, successCount, "成功数量应该恰好等于馆藏数量")
	assert.Equal(t, concurrency-totalCopies, failCount, "超出馆藏的请求应该全部失败")

	book := GetTestBook(t, bookID)
	assert.Equal(t, 0, book.AvailableCopies, "并发借完后可借数量应该是0")
	assert.Equal(t, totalCopies, book.BorrowedCopies, "在借数量应该等于馆藏数量")
	assert.Equal(t, totalCopies, book.TotalCopies, "总藏书量不应被并发破坏")
}
