package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// CreateBookUseCase 新增馆藏用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 此用例比较简单,只需调用领域服务即可
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建新增馆藏用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 新增馆藏请求DTO
type CreateBookRequest struct {
	ISBN        string // ISBN号
	Title       string // 书名
	Author      string // 作者
	Publisher   string // 出版社
	TotalCopies int    // 副本总数
	CoverURL    string // 封面图URL
	Description string // 图书描述
}

// CreateBookResponse 新增馆藏响应DTO
type CreateBookResponse struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	BorrowedCopies  int    `json:"borrowed_copies"`
	CoverURL        string `json:"cover_url"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
}

// Execute 执行新增馆藏用例
// 学习要点:
// 1. 应用层不直接操作Repository,通过领域服务间接操作
// 2. 业务规则校验由领域服务负责(ISBN格式、副本数范围等)
// 3. 新书全部副本可借:available = total, borrowed = 0
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	b, err := uc.bookService.AddBook(
		ctx,
		req.ISBN,
		req.Title,
		req.Author,
		req.Publisher,
		req.TotalCopies,
		req.CoverURL,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	return &CreateBookResponse{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		BorrowedCopies:  b.BorrowedCopies,
		CoverURL:        b.CoverURL,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
