package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行前提：
// 1. 服务已启动在localhost:8080（数据库、Redis就绪）
// 2. 开发配置设置了固定验证码 otp.fixed_code: "123456"
// 3. 配置了初始管理员账号（见下方默认值，可用环境变量覆盖）

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// HealthURL 健康检查URL
	HealthURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
	// TestOTP 开发环境固定验证码
	TestOTP = "123456"
)

// requireServer 检查服务是否可达,不可达时跳过测试
// 这样集成测试在没有启动依赖环境时不会误报失败
func requireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(HealthURL)
	if err != nil {
		t.Skipf("服务不可达,跳过集成测试: %v", err)
	}
	resp.Body.Close()
}

// adminCredentials 返回初始管理员账号(环境变量可覆盖)
func adminCredentials() (email, password string) {
	email = os.Getenv("LIBRARY_ADMIN_EMAIL")
	if email == "" {
		email = "admin@library.local"
	}
	password = os.Getenv("LIBRARY_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin12345"
	}
	return email, password
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	BorrowedCopies  int    `json:"borrowed_copies"`
	Available       bool   `json:"available"`
	Description     string `json:"description"`
}

// BorrowData 借阅记录响应数据
type BorrowData struct {
	BorrowID   uint   `json:"borrow_id"`
	BorrowNo   string `json:"borrow_no"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Status     string `json:"status"`
	BorrowedAt string `json:"borrowed_at"`
	ReturnedAt string `json:"returned_at"`
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, "POST", url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, "PUT", url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, "DELETE", url, nil, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, "GET", url, nil, token)
}

func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(respBody))

	return &result
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 教学说明：
// 使用纳秒时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestISBN 生成唯一的测试ISBN
//
// 教学说明：
// ISBN-13格式：978 + 10位数字
// 使用时间戳的后10位确保唯一性
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// RegisterTestUser 注册、验证并登录测试读者,返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+验证+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	t.Helper()

	// 1. 注册
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	// 2. 邮箱验证（开发环境固定验证码）
	verifyReq := map[string]string{
		"email": email,
		"code":  TestOTP,
	}
	verifyResp := PostJSON(t, BaseURL+"/auth/verify", verifyReq, "")
	require.Equal(t, 0, verifyResp.Code, "邮箱验证失败: %s", verifyResp.Message)

	// 3. 登录
	return email, loginAs(t, email, "Test1234")
}

// AdminToken 以初始管理员身份登录,返回Token
func AdminToken(t *testing.T) string {
	t.Helper()
	email, password := adminCredentials()
	return loginAs(t, email, password)
}

func loginAs(t *testing.T, email, password string) string {
	t.Helper()

	loginReq := map[string]string{
		"email":    email,
		"password": password,
	}

	loginResp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return loginData.AccessToken
}

// CreateTestBook 管理员录入测试图书并返回图书ID
//
// 教学说明：
// 封装了馆藏录入流程，返回bookID供后续测试使用
func CreateTestBook(t *testing.T, adminToken string, title string, totalCopies int) uint {
	t.Helper()

	isbn := GenerateTestISBN()
	bookReq := map[string]interface{}{
		"title":        title,
		"author":       "测试作者",
		"isbn":         isbn,
		"publisher":    "测试出版社",
		"total_copies": totalCopies,
		"description":  "集成测试用图书",
	}

	bookResp := PostJSON(t, BaseURL+"/admin/books", bookReq, adminToken)
	require.Equal(t, 0, bookResp.Code, "馆藏录入失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// GetTestBook 查询图书详情
func GetTestBook(t *testing.T, bookID uint) *BookData {
	t.Helper()

	resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
	require.Equal(t, 0, resp.Code, "查询图书失败: %s", resp.Message)

	var bookData BookData
	err := json.Unmarshal(resp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return &bookData
}

// BorrowTestBook 借书并返回借阅记录
func BorrowTestBook(t *testing.T, token string, bookID uint) *BorrowData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/borrows", map[string]interface{}{"book_id": bookID}, token)
	require.Equal(t, 0, resp.Code, "借书失败: %s", resp.Message)

	var borrowData BorrowData
	err := json.Unmarshal(resp.Data, &borrowData)
	require.NoError(t, err, "解析借阅响应失败")

	return &borrowData
}
