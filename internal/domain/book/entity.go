package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,维护副本台账(总数/可借/在借)
// 2. 核心不变式: 0 <= AvailableCopies <= TotalCopies 且 BorrowedCopies = TotalCopies - AvailableCopies
// 3. ISBN作为业务唯一标识(数据库层保证唯一性)
// 4. 副本计数的并发修改由仓储层的行锁保证,实体方法只做规则校验
type Book struct {
	ID              uint
	ISBN            string // ISBN号(国际标准书号)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社
	TotalCopies     int    // 馆藏副本总数
	AvailableCopies int    // 当前可借副本数
	BorrowedCopies  int    // 当前在借副本数
	CoverURL        string // 封面图片URL
	Description     string // 图书描述
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 初始状态:全部副本可借,在借数为0
func NewBook(isbn, title, author, publisher string, totalCopies int, coverURL, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		BorrowedCopies:  0,
		CoverURL:        coverURL,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsAvailable 是否有可借副本
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// BorrowCopy 借出一个副本(领域行为)
// 业务规则:可借数>0才能借出;借出后 可借数-1,在借数+1
func (b *Book) BorrowCopy() error {
	if b.AvailableCopies <= 0 {
		return ErrOutOfStock
	}
	b.AvailableCopies--
	b.BorrowedCopies++
	b.UpdatedAt = time.Now()
	return nil
}

// ReturnCopy 归还一个副本(领域行为)
// 业务规则:在借数>0才能归还,否则说明台账已经错乱
func (b *Book) ReturnCopy() error {
	if b.BorrowedCopies <= 0 || b.AvailableCopies >= b.TotalCopies {
		return ErrLedgerCorrupted
	}
	b.AvailableCopies++
	b.BorrowedCopies--
	b.UpdatedAt = time.Now()
	return nil
}

// AdjustTotalCopies 调整馆藏总数(领域行为)
// 业务规则:
// 1. 新总数必须>=0
// 2. 可借数按差额同步调整,并收敛到[0, 新总数]区间
//    (减少馆藏时优先回收可借副本,在借副本等归还后自然消化)
// 3. 在借数 = 新总数 - 可借数,三者保持一致
func (b *Book) AdjustTotalCopies(newTotal int) error {
	if newTotal < 0 {
		return ErrInvalidCopies
	}

	delta := newTotal - b.TotalCopies
	available := b.AvailableCopies + delta
	if available < 0 {
		available = 0
	}
	if available > newTotal {
		available = newTotal
	}

	b.TotalCopies = newTotal
	b.AvailableCopies = available
	b.BorrowedCopies = newTotal - available
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, publisher, coverURL, description string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if coverURL != "" {
		b.CoverURL = coverURL
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}

// CheckLedger 校验副本台账一致性
// 任一条件不满足都说明台账损坏,属于服务端错误,需要告警排查:
// 1. 0 <= AvailableCopies <= TotalCopies
// 2. BorrowedCopies = TotalCopies - AvailableCopies
func (b *Book) CheckLedger() error {
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return ErrLedgerCorrupted
	}
	if b.BorrowedCopies != b.TotalCopies-b.AvailableCopies {
		return ErrLedgerCorrupted
	}
	return nil
}
