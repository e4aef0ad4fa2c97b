package dto

// BorrowBookRequest HTTP借书请求
// user_id可选:普通读者忽略此字段(以Token中的身份借阅),
// 管理员可填写目标读者ID代办借阅
type BorrowBookRequest struct {
	BookID uint `json:"book_id" binding:"required" example:"1"`
	UserID uint `json:"user_id" binding:"omitempty" example:"0"`
}

// BorrowResponse HTTP借阅记录响应
type BorrowResponse struct {
	BorrowID   uint   `json:"borrow_id" example:"1"`
	BorrowNo   string `json:"borrow_no" example:"BRW1699248000123456"`
	BookID     uint   `json:"book_id" example:"1"`
	UserID     uint   `json:"user_id" example:"42"`
	Status     string `json:"status" example:"active"`
	BorrowedAt string `json:"borrowed_at" example:"2024-11-06 10:30:00"`
	ReturnedAt string `json:"returned_at,omitempty" example:"2024-11-20 10:30:00"`
}

// ListBorrowsRequest HTTP借阅列表请求(管理员)
type ListBorrowsRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100" example:"20"`
	Status   string `form:"status" binding:"omitempty,oneof=active returned" example:"active"`
}
