package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 使用依赖注入，便于测试
type UserHandler struct {
	registerUseCase       *appuser.RegisterUseCase
	verifyUseCase         *appuser.VerifyUseCase
	resendOTPUseCase      *appuser.ResendOTPUseCase
	loginUseCase          *appuser.LoginUseCase
	logoutUseCase         *appuser.LogoutUseCase
	refreshTokenUseCase   *appuser.RefreshTokenUseCase
	changePasswordUseCase *appuser.ChangePasswordUseCase
	profileUseCase        *appuser.ProfileUseCase
	listMembersUseCase    *appuser.ListMembersUseCase
	removeMemberUseCase   *appuser.RemoveMemberUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	verifyUseCase *appuser.VerifyUseCase,
	resendOTPUseCase *appuser.ResendOTPUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshTokenUseCase *appuser.RefreshTokenUseCase,
	changePasswordUseCase *appuser.ChangePasswordUseCase,
	profileUseCase *appuser.ProfileUseCase,
	listMembersUseCase *appuser.ListMembersUseCase,
	removeMemberUseCase *appuser.RemoveMemberUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase:       registerUseCase,
		verifyUseCase:         verifyUseCase,
		resendOTPUseCase:      resendOTPUseCase,
		loginUseCase:          loginUseCase,
		logoutUseCase:         logoutUseCase,
		refreshTokenUseCase:   refreshTokenUseCase,
		changePasswordUseCase: changePasswordUseCase,
		profileUseCase:        profileUseCase,
		listMembersUseCase:    listMembersUseCase,
		removeMemberUseCase:   removeMemberUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新账号并发送邮箱验证码,验证后方可登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.UserResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/auth/signup [post]
func (h *UserHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数验证失败（如邮箱格式错误、密码长度不足）
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	// 学习要点：Handler不直接调用domain层，而是通过application层
	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		// 业务错误（如邮箱已存在、密码强度不足）
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	// 将application层的DTO转换为HTTP层的DTO
	response.Success(c, &dto.UserResponse{
		ID:       result.ID,
		Email:    result.Email,
		Nickname: result.Nickname,
	})
}

// Verify 邮箱验证
// @Summary      邮箱验证
// @Description  校验验证码,激活账号
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.VerifyRequest true "验证信息"
// @Success      200 {object} response.Response "验证成功"
// @Failure      400 {object} response.Response "验证码错误或已过期"
// @Router       /api/v1/auth/verify [post]
func (h *UserHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.verifyUseCase.Execute(c.Request.Context(), appuser.VerifyRequest{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ResendOTP 重发验证码
// @Summary      重发验证码
// @Description  为未验证的账号重新签发验证码
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.ResendOTPRequest true "邮箱"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/auth/resend [post]
func (h *UserHandler) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.resendOTPUseCase.Execute(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token(未验证邮箱的账号拒绝登录)
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "邮箱或密码错误/邮箱未验证"
// @Router       /api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	// 1. 绑定并验证参数
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用登录用例
	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// 登录失败（邮箱不存在、密码错误、未验证）
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应（包含Token）
	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), userID, token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RefreshToken 刷新Access Token
// @Summary      刷新Token
// @Description  用Refresh Token换取新的Access Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "Refresh Token无效或已过期"
// @Router       /api/v1/auth/refresh [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	accessToken, err := h.refreshTokenUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"access_token": accessToken})
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Description  验证旧密码后更新,成功后现有会话失效
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "新旧密码"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "旧密码错误"
// @Router       /api/v1/users/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.changePasswordUseCase.Execute(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Me 查询当前用户资料
// @Summary      当前用户资料
// @Description  返回登录用户自己的账号信息
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.profileUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListMembers 读者列表(管理员)
// @Summary      读者列表
// @Description  管理员分页查询注册读者
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/admin/members [get]
func (h *UserHandler) ListMembers(c *gin.Context) {
	var req dto.ListMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	items, total, err := h.listMembersUseCase.Execute(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	response.SuccessWithPage(c, items, total, page, pageSize)
}

// RemoveMember 注销读者账号(管理员)
// @Summary      注销读者
// @Description  管理员注销读者账号,仍有在借图书时拒绝
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "不能注销管理员账号"
// @Failure      409 {object} response.Response "该读者仍有未归还的图书"
// @Router       /api/v1/admin/members/{id} [delete]
func (h *UserHandler) RemoveMember(c *gin.Context) {
	memberID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "读者ID格式错误")
		return
	}

	if err := h.removeMemberUseCase.Execute(c.Request.Context(), memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
