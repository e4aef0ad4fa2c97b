package dto

// CreateBookRequest HTTP新增馆藏请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type CreateBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9787115428028"`
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" binding:"required,max=100" example:"人民邮电出版社"`
	TotalCopies int    `json:"total_copies" binding:"min=0" example:"5"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
}

// UpdateBookRequest HTTP更新馆藏请求
// 所有字段可选,total_copies为null表示不调整副本总数
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"omitempty,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"omitempty,max=100" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" binding:"omitempty,max=100" example:"人民邮电出版社"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"omitempty,max=5000" example:"图书描述"`
	TotalCopies *int   `json:"total_copies" binding:"omitempty,min=0" example:"8"`
}

// BookResponse HTTP图书响应
// 用于单个图书详情返回
type BookResponse struct {
	ID              uint   `json:"id" example:"1"`
	ISBN            string `json:"isbn" example:"9787115428028"`
	Title           string `json:"title" example:"Go语言实战"`
	Author          string `json:"author" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	TotalCopies     int    `json:"total_copies" example:"5"`
	AvailableCopies int    `json:"available_copies" example:"3"`
	BorrowedCopies  int    `json:"borrowed_copies" example:"2"`
	Available       bool   `json:"available" example:"true"`
	CoverURL        string `json:"cover_url" example:"https://example.com/cover.jpg"`
	Description     string `json:"description" example:"这是一本关于Go语言的实战书籍"`
	CreatedAt       string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt       string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// BookListItem HTTP图书列表项
// 列表查询时不返回Description字段(减少数据传输量)
type BookListItem struct {
	ID              uint   `json:"id" example:"1"`
	ISBN            string `json:"isbn" example:"9787115428028"`
	Title           string `json:"title" example:"Go语言实战"`
	Author          string `json:"author" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	TotalCopies     int    `json:"total_copies" example:"5"`
	AvailableCopies int    `json:"available_copies" example:"3"`
	BorrowedCopies  int    `json:"borrowed_copies" example:"2"`
	CoverURL        string `json:"cover_url" example:"https://example.com/cover.jpg"`
	CreatedAt       string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=title_asc created_at_desc" example:"created_at_desc"`
}

// ListBooksResponse HTTP图书列表响应
type ListBooksResponse struct {
	List  []BookListItem `json:"list"`
	Total int64          `json:"total" example:"100"`
	Page  int            `json:"page" example:"1"`
	Size  int            `json:"size" example:"20"`
}
