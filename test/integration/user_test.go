package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：认证模块集成测试
//
// 集成测试 vs 单元测试：
// - 单元测试：Mock外部依赖（数据库、Redis），测试单个函数的逻辑
// - 集成测试：使用真实的数据库和Redis，测试完整的API流程
//
// 集成测试的价值：
// 1. 验证各组件协同工作（Handler → UseCase → Service → Repository → Database）
// 2. 发现配置错误（如数据库连接、依赖注入）
// 3. 验证业务流程的完整性
//
// 运行方式：
//   go test -v ./test/integration/...   # 需要先启动服务和依赖环境

// TestUserRegister 测试用户注册功能
//
// 测试场景：
// 1. 正常注册
// 2. 重复邮箱注册（应失败）
// 3. 密码格式校验
// 4. 邮箱格式校验
func TestUserRegister(t *testing.T) {
	requireServer(t)

	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("normal_user")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")

		assert.Equal(t, 0, resp.Code, "注册应该成功")

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "用户ID应该大于0")
		assert.Equal(t, email, data.Email, "返回的邮箱应该与请求一致")
		assert.Equal(t, "测试用户", data.Nickname, "返回的昵称应该与请求一致")

		t.Logf("✓ 注册成功，用户ID: %d", data.ID)
	})

	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email := GenerateTestEmail("duplicate_user")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试用户1",
		}

		resp1 := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")
		require.Equal(t, 0, resp1.Code, "第一次注册应该成功")

		registerReq["nickname"] = "测试用户2"
		resp2 := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")

		// 教学说明：错误码定义
		// 40901: 邮箱已存在（409 Conflict + 01自定义业务码）
		assert.NotEqual(t, 0, resp2.Code, "重复邮箱注册应该失败")
		assert.Contains(t, resp2.Message, "邮箱", "错误信息应该提示邮箱相关")

		t.Logf("✓ 重复邮箱注册正确返回错误: %s", resp2.Message)
	})

	t.Run("密码过短应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    GenerateTestEmail("short_pwd"),
			"password": "123",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "密码过短应该失败")

		t.Logf("✓ 密码过短正确返回错误: %s", resp.Message)
	})

	t.Run("邮箱格式错误应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    "invalid-email",
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "邮箱格式错误应该失败")

		t.Logf("✓ 邮箱格式错误正确返回错误: %s", resp.Message)
	})
}

// TestUserVerify 测试邮箱验证功能
//
// 测试场景：
// 1. 正确验证码激活账号
// 2. 错误验证码被拒绝
// 3. 未验证账号不能登录
func TestUserVerify(t *testing.T) {
	requireServer(t)

	t.Run("未验证账号登录被拒绝", func(t *testing.T) {
		email := GenerateTestEmail("unverified")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "未验证用户",
		}
		resp := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")
		require.Equal(t, 0, resp.Code, "注册失败")

		// 跳过验证直接登录
		loginReq := map[string]string{
			"email":    email,
			"password": "Test1234",
		}
		loginResp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
		assert.NotEqual(t, 0, loginResp.Code, "未验证账号登录应该失败")

		t.Logf("✓ 未验证账号登录正确被拒绝: %s", loginResp.Message)
	})

	t.Run("错误验证码被拒绝", func(t *testing.T) {
		email := GenerateTestEmail("wrong_otp")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "验证码测试",
		}
		resp := PostJSON(t, BaseURL+"/auth/signup", registerReq, "")
		require.Equal(t, 0, resp.Code, "注册失败")

		verifyReq := map[string]string{
			"email": email,
			"code":  "000000",
		}
		verifyResp := PostJSON(t, BaseURL+"/auth/verify", verifyReq, "")
		assert.NotEqual(t, 0, verifyResp.Code, "错误验证码应该被拒绝")

		t.Logf("✓ 错误验证码正确被拒绝: %s", verifyResp.Message)
	})

	t.Run("正确验证码激活账号后可登录", func(t *testing.T) {
		// RegisterTestUser内部完成注册→验证→登录
		email, token := RegisterTestUser(t, "verified_user")
		assert.NotEmpty(t, token, "验证后登录应该返回Token")

		t.Logf("✓ 账号%s验证并登录成功", email)
	})
}

// TestUserLogin 测试用户登录功能
//
// 测试场景：
// 1. 正常登录
// 2. 密码错误
// 3. 用户不存在
// 4. Token有效性
// 5. 登出后Token失效
func TestUserLogin(t *testing.T) {
	requireServer(t)

	email, _ := RegisterTestUser(t, "login_test")
	password := "Test1234"

	t.Run("正常登录", func(t *testing.T) {
		loginReq := map[string]string{
			"email":    email,
			"password": password,
		}

		resp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
		assert.Equal(t, 0, resp.Code, "登录应该成功")

		var data LoginData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotEmpty(t, data.AccessToken, "应该返回access_token")
		assert.NotEmpty(t, data.RefreshToken, "应该返回refresh_token")

		// 教学说明：JWT由三部分组成：header.payload.signature
		assert.Contains(t, data.AccessToken, ".", "JWT Token应该包含点号分隔符")

		t.Logf("✓ 登录成功，Access Token长度: %d", len(data.AccessToken))
	})

	t.Run("密码错误应失败", func(t *testing.T) {
		loginReq := map[string]string{
			"email":    email,
			"password": "WrongPassword",
		}

		resp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
		assert.NotEqual(t, 0, resp.Code, "密码错误应该失败")

		t.Logf("✓ 密码错误正确返回错误: %s", resp.Message)
	})

	t.Run("用户不存在应失败", func(t *testing.T) {
		loginReq := map[string]string{
			"email":    "nonexistent@test.com",
			"password": "Test1234",
		}

		resp := PostJSON(t, BaseURL+"/auth/login", loginReq, "")
		assert.NotEqual(t, 0, resp.Code, "用户不存在应该失败")
		// 安全考虑：不应该明确提示"用户不存在"，防止攻击者枚举邮箱

		t.Logf("✓ 用户不存在正确返回错误: %s", resp.Message)
	})

	t.Run("Token可以访问受保护接口", func(t *testing.T) {
		token := loginAs(t, email, password)

		resp := GetJSON(t, BaseURL+"/borrows/my", token)
		assert.Equal(t, 0, resp.Code, "使用有效Token应该可以查询借阅记录")

		t.Logf("✓ Token验证通过，可以访问受保护接口")
	})

	t.Run("查询当前用户资料", func(t *testing.T) {
		token := loginAs(t, email, password)

		resp := GetJSON(t, BaseURL+"/users/me", token)
		require.Equal(t, 0, resp.Code, "查询资料失败: %s", resp.Message)

		var profile struct {
			Email      string `json:"email"`
			Role       string `json:"role"`
			IsVerified bool   `json:"is_verified"`
		}
		err := json.Unmarshal(resp.Data, &profile)
		require.NoError(t, err, "解析资料响应失败")

		assert.Equal(t, email, profile.Email)
		assert.Equal(t, "user", profile.Role, "注册用户默认角色应该是user")
		assert.True(t, profile.IsVerified, "登录成功的用户必然已验证")

		t.Logf("✓ 用户资料查询成功")
	})

	t.Run("无效Token应被拒绝", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/borrows/my", "invalid.jwt.token")
		assert.NotEqual(t, 0, resp.Code, "无效Token应该被拒绝")

		t.Logf("✓ 无效Token正确被拒绝: %s", resp.Message)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		token := loginAs(t, email, password)

		// 登出
		logoutResp := PostJSON(t, BaseURL+"/auth/logout", nil, token)
		require.Equal(t, 0, logoutResp.Code, "登出失败: %s", logoutResp.Message)

		// 再次使用已登出的Token
		resp := GetJSON(t, BaseURL+"/borrows/my", token)
		assert.NotEqual(t, 0, resp.Code, "已登出的Token应该被拒绝")

		t.Logf("✓ 登出后Token正确失效: %s", resp.Message)
	})
}
