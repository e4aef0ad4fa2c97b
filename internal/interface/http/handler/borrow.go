package handler

import (
	"github.com/gin-gonic/gin"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// BorrowHandler 借阅HTTP处理器
type BorrowHandler struct {
	borrowBookUseCase  *appborrow.BorrowBookUseCase
	returnBookUseCase  *appborrow.ReturnBookUseCase
	listBorrowsUseCase *appborrow.ListBorrowsUseCase
}

// NewBorrowHandler 创建借阅处理器
func NewBorrowHandler(
	borrowBookUseCase *appborrow.BorrowBookUseCase,
	returnBookUseCase *appborrow.ReturnBookUseCase,
	listBorrowsUseCase *appborrow.ListBorrowsUseCase,
) *BorrowHandler {
	return &BorrowHandler{
		borrowBookUseCase:  borrowBookUseCase,
		returnBookUseCase:  returnBookUseCase,
		listBorrowsUseCase: listBorrowsUseCase,
	}
}

// BorrowBook 借书
// @Summary      借书
// @Description  借出一个副本（需要登录），使用悲观锁防止超借
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BorrowBookRequest true "借阅信息"
// @Success      200 {object} response.Response{data=dto.BorrowResponse} "借阅成功"
// @Failure      400 {object} response.Response "无可借副本"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书或读者不存在"
// @Router       /api/v1/borrows [post]
//
// 教学说明：防超借的核心逻辑
// 本接口是整个项目的核心功能之一，演示了如何在并发场景下守住副本台账。
//
// 实现方案：悲观锁（SELECT FOR UPDATE）
// 1. 开启数据库事务
// 2. 使用SELECT FOR UPDATE锁定图书行
// 3. 检查可借副本是否>0
// 4. 扣减可借数、增加在借数
// 5. 创建借阅记录
// 6. 提交事务
//
// 测试方法：
// 1. 创建只有1个副本的图书
// 2. 启动2个并发借阅请求
// 3. 预期结果：恰好1个成功，另1个返回无可借副本
func (h *BorrowHandler) BorrowBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.BorrowBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 确定借阅人
	// 普通读者只能以本人身份借阅;管理员可指定user_id代办
	userID := middleware.MustGetUserID(c)
	if req.UserID != 0 && req.UserID != userID {
		if !middleware.IsAdmin(c) {
			response.ErrorWithCode(c, 40104, "没有操作权限")
			return
		}
		userID = req.UserID
	}

	// 3. 调用应用层用例
	result, err := h.borrowBookUseCase.Execute(c.Request.Context(), appborrow.BorrowBookRequest{
		BookID: req.BookID,
		UserID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 4. 构建HTTP响应
	response.Success(c, &dto.BorrowResponse{
		BorrowID:   result.BorrowID,
		BorrowNo:   result.BorrowNo,
		BookID:     result.BookID,
		UserID:     result.UserID,
		Status:     result.Status,
		BorrowedAt: result.BorrowedAt,
	})
}

// ReturnBook 还书
// @Summary      还书
// @Description  归还本人的在借副本,重复归还返回业务错误
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.BorrowResponse} "归还成功"
// @Failure      400 {object} response.Response "该记录已归还"
// @Failure      403 {object} response.Response "只能归还本人的借阅记录"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/borrows/{id}/return [put]
func (h *BorrowHandler) ReturnBook(c *gin.Context) {
	borrowID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "借阅记录ID格式错误")
		return
	}

	userID := middleware.MustGetUserID(c)
	result, err := h.returnBookUseCase.Execute(c.Request.Context(), appborrow.ReturnBookRequest{
		BorrowID: borrowID,
		UserID:   userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BorrowResponse{
		BorrowID:   result.BorrowID,
		BorrowNo:   result.BorrowNo,
		BookID:     result.BookID,
		UserID:     result.UserID,
		Status:     result.Status,
		ReturnedAt: result.ReturnedAt,
	})
}

// MyBorrows 我的借阅记录
// @Summary      我的借阅
// @Description  查询当前登录读者的借阅记录
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response
// @Router       /api/v1/borrows/my [get]
func (h *BorrowHandler) MyBorrows(c *gin.Context) {
	var req dto.ListBorrowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	items, total, err := h.listBorrowsUseCase.ListByUser(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, req.Page, req.PageSize)
}

// ListBorrows 借阅记录列表(管理员)
// @Summary      借阅记录列表
// @Description  管理员查询全馆借阅记录,支持按状态过滤
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Param        status query string false "状态过滤" Enums(active, returned)
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/admin/borrows [get]
func (h *BorrowHandler) ListBorrows(c *gin.Context) {
	var req dto.ListBorrowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	items, total, err := h.listBorrowsUseCase.ListAll(c.Request.Context(), req.Status, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, req.Page, req.PageSize)
}

// BookHistory 图书借阅历史
// @Summary      图书借阅历史
// @Description  公开接口,按借阅发生顺序返回某本书的借阅记录
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id}/history [get]
func (h *BorrowHandler) BookHistory(c *gin.Context) {
	bookID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	var req dto.ListBorrowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	items, total, err := h.listBorrowsUseCase.BookHistory(c.Request.Context(), bookID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, req.Page, req.PageSize)
}
