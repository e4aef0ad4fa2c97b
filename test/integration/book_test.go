package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookManagement 测试馆藏管理功能（管理员接口）
//
// 测试场景：
// 1. 管理员录入图书
// 2. 普通用户录入被拒绝（权限控制）
// 3. 重复ISBN录入失败
// 4. 修改图书信息
// 5. 调整总藏书量（含在借时的收缩钳制）
// 6. 下架图书（有在借记录时拒绝）
func TestBookManagement(t *testing.T) {
	requireServer(t)

	adminToken := AdminToken(t)

	t.Run("管理员录入图书", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "Go语言实战", 5)

		book := GetTestBook(t, bookID)
		assert.Equal(t, "Go语言实战", book.Title)
		assert.Equal(t, 5, book.TotalCopies, "总藏书量应该是5")
		assert.Equal(t, 5, book.AvailableCopies, "新录入图书的可借数量应该等于总量")
		assert.Equal(t, 0, book.BorrowedCopies, "新录入图书的在借数量应该是0")
		assert.True(t, book.Available, "有可借副本时应该标记为可借")

		t.Logf("✓ 录入成功，图书ID: %d", bookID)
	})

	t.Run("普通用户录入被拒绝", func(t *testing.T) {
		_, userToken := RegisterTestUser(t, "normal_member")

		bookReq := map[string]interface{}{
			"title":        "越权录入",
			"author":       "测试作者",
			"isbn":         GenerateTestISBN(),
			"publisher":    "测试出版社",
			"total_copies": 1,
		}

		resp := PostJSON(t, BaseURL+"/admin/books", bookReq, userToken)

		// 40104: 没有操作权限
		assert.Equal(t, 40104, resp.Code, "普通用户应该被权限中间件拦截")

		t.Logf("✓ 普通用户录入正确被拒绝: %s", resp.Message)
	})

	t.Run("重复ISBN录入失败", func(t *testing.T) {
		isbn := GenerateTestISBN()
		bookReq := map[string]interface{}{
			"title":        "第一本",
			"author":       "测试作者",
			"isbn":         isbn,
			"publisher":    "测试出版社",
			"total_copies": 1,
		}

		resp1 := PostJSON(t, BaseURL+"/admin/books", bookReq, adminToken)
		require.Equal(t, 0, resp1.Code, "第一次录入应该成功")

		bookReq["title"] = "第二本"
		resp2 := PostJSON(t, BaseURL+"/admin/books", bookReq, adminToken)
		assert.NotEqual(t, 0, resp2.Code, "重复ISBN录入应该失败")

		t.Logf("✓ 重复ISBN正确返回错误: %s", resp2.Message)
	})

	t.Run("修改图书信息", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "旧书名", 3)

		updateReq := map[string]interface{}{
			"title":  "新书名",
			"author": "新作者",
		}
		resp := PutJSON(t, fmt.Sprintf("%s/admin/books/%d", BaseURL, bookID), updateReq, adminToken)
		require.Equal(t, 0, resp.Code, "修改图书信息失败: %s", resp.Message)

		book := GetTestBook(t, bookID)
		assert.Equal(t, "新书名", book.Title)
		assert.Equal(t, "新作者", book.Author)
		assert.Equal(t, 3, book.TotalCopies, "未指定total_copies时藏书量不应变化")

		t.Logf("✓ 图书信息修改成功")
	})

	t.Run("调整总藏书量并钳制可借数量", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "藏书量调整测试", 5)

		// 借出2本，此时 总量5 / 可借3 / 在借2
		_, user1 := RegisterTestUser(t, "clamp_user1")
		_, user2 := RegisterTestUser(t, "clamp_user2")
		BorrowTestBook(t, user1, bookID)
		BorrowTestBook(t, user2, bookID)

		// 扩容：5 → 8，新增的3本全部可借
		resp := PutJSON(t, fmt.Sprintf("%s/admin/books/%d", BaseURL, bookID),
			map[string]interface{}{"total_copies": 8}, adminToken)
		require.Equal(t, 0, resp.Code, "扩容失败: %s", resp.Message)

		book := GetTestBook(t, bookID)
		assert.Equal(t, 8, book.TotalCopies)
		assert.Equal(t, 6, book.AvailableCopies, "扩容后可借数量应该同步增加")
		assert.Equal(t, 2, book.BorrowedCopies, "在借数量不受扩容影响")

		// 收缩到1本（小于在借数量2）：可借钳制到0，在借按账实差额记为1
		// 教学说明：收缩不会强制读者还书，账面以"可借不为负"为准
		resp = PutJSON(t, fmt.Sprintf("%s/admin/books/%d", BaseURL, bookID),
			map[string]interface{}{"total_copies": 1}, adminToken)
		require.Equal(t, 0, resp.Code, "收缩失败: %s", resp.Message)

		book = GetTestBook(t, bookID)
		assert.Equal(t, 1, book.TotalCopies)
		assert.Equal(t, 0, book.AvailableCopies, "收缩后可借数量应该被钳制到0")
		assert.False(t, book.Available, "无可借副本时应该标记为不可借")

		t.Logf("✓ 藏书量调整与钳制逻辑正确")
	})

	t.Run("有在借记录时下架被拒绝", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "下架冲突测试", 2)

		_, userToken := RegisterTestUser(t, "delete_conflict")
		borrow := BorrowTestBook(t, userToken, bookID)

		resp := DeleteJSON(t, fmt.Sprintf("%s/admin/books/%d", BaseURL, bookID), adminToken)
		assert.NotEqual(t, 0, resp.Code, "有在借记录时下架应该被拒绝")

		// 还书后可以下架
		returnResp := PutJSON(t, fmt.Sprintf("%s/borrows/%d/return", BaseURL, borrow.BorrowID), nil, userToken)
		require.Equal(t, 0, returnResp.Code, "还书失败: %s", returnResp.Message)

		resp = DeleteJSON(t, fmt.Sprintf("%s/admin/books/%d", BaseURL, bookID), adminToken)
		assert.Equal(t, 0, resp.Code, "全部归还后下架应该成功: %s", resp.Message)

		t.Logf("✓ 下架冲突检测正确")
	})
}

// TestBookQuery 测试图书查询功能（公开接口，无需登录）
func TestBookQuery(t *testing.T) {
	requireServer(t)

	adminToken := AdminToken(t)
	bookID := CreateTestBook(t, adminToken, "查询测试图书", 3)

	t.Run("查询图书详情", func(t *testing.T) {
		book := GetTestBook(t, bookID)

		assert.Equal(t, bookID, book.ID)
		assert.Equal(t, "查询测试图书", book.Title)
		assert.NotEmpty(t, book.ISBN)

		t.Logf("✓ 图书详情查询成功: %s", book.Title)
	})

	t.Run("查询不存在的图书", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/99999999", "")
		assert.NotEqual(t, 0, resp.Code, "查询不存在的图书应该返回错误")

		t.Logf("✓ 不存在的图书正确返回错误: %s", resp.Message)
	})

	t.Run("分页查询图书列表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?page=1&page_size=5", "")
		require.Equal(t, 0, resp.Code, "查询图书列表失败: %s", resp.Message)

		var listData struct {
			List  []BookData `json:"list"`
			Total int64      `json:"total"`
		}
		err := json.Unmarshal(resp.Data, &listData)
		require.NoError(t, err, "解析列表响应失败")

		assert.LessOrEqual(t, len(listData.List), 5, "返回条数不应超过page_size")
		assert.GreaterOrEqual(t, listData.Total, int64(1), "总数应该至少包含刚录入的图书")

		t.Logf("✓ 列表查询成功，共%d本", listData.Total)
	})
}
