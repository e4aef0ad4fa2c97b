package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 馆藏HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	getBookUseCase    *appbook.GetBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	manageBookUseCase *appbook.ManageBookUseCase
}

// NewBookHandler 创建馆藏处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	manageBookUseCase *appbook.ManageBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		getBookUseCase:    getBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		manageBookUseCase: manageBookUseCase,
	}
}

// CreateBook 新增馆藏图书
// @Summary      新增馆藏
// @Description  管理员录入新图书,全部副本进入可借池
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/admin/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例(管理员权限由路由中间件保证)
	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		TotalCopies: req.TotalCopies,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	response.Success(c, &dto.BookResponse{
		ID:              result.ID,
		ISBN:            result.ISBN,
		Title:           result.Title,
		Author:          result.Author,
		Publisher:       result.Publisher,
		TotalCopies:     result.TotalCopies,
		AvailableCopies: result.AvailableCopies,
		BorrowedCopies:  result.BorrowedCopies,
		Available:       result.AvailableCopies > 0,
		CoverURL:        result.CoverURL,
		Description:     result.Description,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.CreatedAt, // 新创建时UpdatedAt等于CreatedAt
	})
}

// GetBook 查询图书详情
// @Summary      图书详情
// @Description  公开接口,返回图书信息与副本台账
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BookResponse{
		ID:              result.ID,
		ISBN:            result.ISBN,
		Title:           result.Title,
		Author:          result.Author,
		Publisher:       result.Publisher,
		TotalCopies:     result.TotalCopies,
		AvailableCopies: result.AvailableCopies,
		BorrowedCopies:  result.BorrowedCopies,
		Available:       result.Available,
		CoverURL:        result.CoverURL,
		Description:     result.Description,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	})
}

// ListBooks 查询图书列表
// @Summary      图书列表
// @Description  公开接口,支持分页、关键词搜索、排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Param        sort_by query string false "排序方式" Enums(title_asc, created_at_desc)
// @Success      200 {object} response.Response{data=dto.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BookListItem, len(result.List))
	for i, b := range result.List {
		list[i] = dto.BookListItem{
			ID:              b.ID,
			ISBN:            b.ISBN,
			Title:           b.Title,
			Author:          b.Author,
			Publisher:       b.Publisher,
			TotalCopies:     b.TotalCopies,
			AvailableCopies: b.AvailableCopies,
			BorrowedCopies:  b.BorrowedCopies,
			CoverURL:        b.CoverURL,
			CreatedAt:       b.CreatedAt,
		}
	}

	response.SuccessWithPage(c, list, result.Total, result.Page, result.PageSize)
}

// UpdateBook 更新馆藏
// @Summary      更新馆藏
// @Description  管理员更新图书信息或调整副本总数(收缩时可借数夹取到[0,新总数])
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新内容"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/admin/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageBookUseCase.UpdateBook(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		TotalCopies: req.TotalCopies,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BookResponse{
		ID:              result.ID,
		ISBN:            result.ISBN,
		Title:           result.Title,
		Author:          result.Author,
		Publisher:       result.Publisher,
		TotalCopies:     result.TotalCopies,
		AvailableCopies: result.AvailableCopies,
		BorrowedCopies:  result.BorrowedCopies,
		Available:       result.AvailableCopies > 0,
		CoverURL:        result.CoverURL,
		Description:     result.Description,
		UpdatedAt:       result.UpdatedAt,
	})
}

// DeleteBook 下架图书
// @Summary      下架图书
// @Description  管理员下架图书,存在未归还借阅时拒绝
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "仍有未归还的借阅记录"
// @Router       /api/v1/admin/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	if err := h.manageBookUseCase.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// parseUintParam 解析路径中的数字ID
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
