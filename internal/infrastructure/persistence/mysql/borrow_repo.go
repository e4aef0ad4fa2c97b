package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// borrowRepository 借阅仓储实现(MySQL)
// 教学要点:
// 1. 创建借阅记录必须与副本扣减在同一事务中(通过context传递事务)
// 2. 归还使用带状态条件的UPDATE,数据库层面保证"只归还一次"
type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository 创建借阅仓储
func NewBorrowRepository(db *gorm.DB) borrow.Repository {
	return &borrowRepository{db: db}
}

// Create 创建借阅记录
// 教学要点:必须在事务中调用(通过getDB从context获取事务DB)
func (r *borrowRepository) Create(ctx context.Context, record *borrow.Record) error {
	// 1. 领域实体 → GORM模型
	model := toBorrowModel(record)

	// 2. 插入数据库
	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	// 3. 回填自增ID
	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找借阅记录
func (r *borrowRepository) FindByID(ctx context.Context, id uint) (*borrow.Record, error) {
	var model BorrowModel
	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrow.ErrBorrowNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toBorrowEntity(&model), nil
}

// FindByBorrowNo 根据借阅单号查找
func (r *borrowRepository) FindByBorrowNo(ctx context.Context, borrowNo string) (*borrow.Record, error) {
	var model BorrowModel
	db := r.getDB(ctx)
	err := db.Where("borrow_no = ?", borrowNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrow.ErrBorrowNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toBorrowEntity(&model), nil
}

// Update 更新借阅记录(主要用于归还)
// 教学要点:
// 1. WHERE条件带上status=在借,并发归还时只有一个UPDATE生效
// 2. RowsAffected==0时再查一次区分"记录不存在"和"已归还"
func (r *borrowRepository) Update(ctx context.Context, record *borrow.Record) error {
	db := r.getDB(ctx)

	// 只更新状态和归还时间
	result := db.Model(&BorrowModel{}).
		Where("id = ?", record.ID).
		Where("status = ?", int(borrow.StatusActive)).
		Updates(map[string]interface{}{
			"status":      int(record.Status),
			"returned_at": record.ReturnedAt,
			"updated_at":  record.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅记录失败")
	}

	if result.RowsAffected == 0 {
		// 可能是记录不存在,或者已经归还过
		var model BorrowModel
		if err := db.First(&model, record.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return borrow.ErrBorrowNotFound
			}
			return apperrors.Wrap(err, "查询借阅记录失败")
		}
		// 记录存在,说明已归还
		return borrow.ErrAlreadyReturned
	}

	return nil
}

// ListByBook 查询某本书的借阅历史
// 按创建顺序返回(含已归还记录)
func (r *borrowRepository) ListByBook(ctx context.Context, bookID uint, page, pageSize int) ([]*borrow.Record, int64, error) {
	var models []BorrowModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&BorrowModel{}).Where("book_id = ?", bookID)

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅历史总数失败")
	}

	// 分页查询(按创建顺序,ID递增即插入顺序)
	offset := (page - 1) * pageSize
	err := query.Order("id ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅历史失败")
	}

	return toBorrowEntities(models), total, nil
}

// ListByUser 查询用户的借阅记录列表
func (r *borrowRepository) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*borrow.Record, int64, error) {
	var models []BorrowModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&BorrowModel{}).Where("user_id = ?", userID)

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录总数失败")
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toBorrowEntities(models), total, nil
}

// List 查询全部借阅记录(管理员视角)
func (r *borrowRepository) List(ctx context.Context, status *borrow.Status, page, pageSize int) ([]*borrow.Record, int64, error) {
	var models []BorrowModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&BorrowModel{})
	if status != nil {
		query = query.Where("status = ?", int(*status))
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录总数失败")
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toBorrowEntities(models), total, nil
}

// CountActiveByBook 统计某本书的在借记录数
func (r *borrowRepository) CountActiveByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	db := r.getDB(ctx)
	err := db.Model(&BorrowModel{}).
		Where("book_id = ?", bookID).
		Where("status = ?", int(borrow.StatusActive)).
		Count(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计在借记录失败")
	}

	return count, nil
}

// CountActiveByUser 统计某个读者的在借记录数
func (r *borrowRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	db := r.getDB(ctx)
	err := db.Model(&BorrowModel{}).
		Where("user_id = ?", userID).
		Where("status = ?", int(borrow.StatusActive)).
		Count(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计读者在借记录失败")
	}

	return count, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBorrowModel 领域实体 → GORM模型
func toBorrowModel(record *borrow.Record) *BorrowModel {
	return &BorrowModel{
		ID:         record.ID,
		BorrowNo:   record.BorrowNo,
		BookID:     record.BookID,
		UserID:     record.UserID,
		Status:     int(record.Status),
		BorrowedAt: record.BorrowedAt,
		ReturnedAt: record.ReturnedAt,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

// toBorrowEntity GORM模型 → 领域实体
func toBorrowEntity(model *BorrowModel) *borrow.Record {
	return &borrow.Record{
		ID:         model.ID,
		BorrowNo:   model.BorrowNo,
		BookID:     model.BookID,
		UserID:     model.UserID,
		Status:     borrow.Status(model.Status),
		BorrowedAt: model.BorrowedAt,
		ReturnedAt: model.ReturnedAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// toBorrowEntities 批量转换
func toBorrowEntities(models []BorrowModel) []*borrow.Record {
	records := make([]*borrow.Record, len(models))
	for i, model := range models {
		records[i] = toBorrowEntity(&model)
	}
	return records
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *borrowRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
