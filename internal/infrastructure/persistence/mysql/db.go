package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			// 使用UTC+8时间（配合MySQL的TZ=Asia/Shanghai）
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&BorrowModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID           uint           `gorm:"primaryKey"`
	Email        string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password     string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname     string         `gorm:"size:50;not null;comment:昵称"`
	Role         string         `gorm:"size:20;not null;default:user;comment:角色(user/admin)"`
	IsVerified   bool           `gorm:"default:false;comment:邮箱是否已验证"`
	OTP          string         `gorm:"size:10;comment:当前验证码"`
	OTPExpiresAt *time.Time     `gorm:"comment:验证码过期时间"`
	CreatedAt    time.Time      `gorm:"comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 三个副本计数列构成台账:total_copies/available_copies/borrowed_copies
// 2. 计数修改必须走行锁+条件UPDATE,不允许直接Save覆盖计数
// 3. ISBN有唯一索引,防止重复
// 4. 添加复合索引优化列表查询性能
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	ISBN            string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Author          string         `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Publisher       string         `gorm:"size:100;comment:出版社"`
	TotalCopies     int            `gorm:"not null;default:0;comment:馆藏副本总数"`
	AvailableCopies int            `gorm:"not null;default:0;comment:可借副本数"`
	BorrowedCopies  int            `gorm:"not null;default:0;comment:在借副本数"`
	CoverURL        string         `gorm:"size:500;comment:封面图片URL"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	CreatedAt       time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BorrowModel GORM借阅记录模型
// 教学要点:
// 1. BorrowNo有唯一索引(业务主键)
// 2. Status使用int存储(节省空间,便于索引)
// 3. (book_id, status)复合索引支撑"某本书的在借数"统计
// 4. returned_at为NULL表示在借,与status互为印证
type BorrowModel struct {
	ID         uint       `gorm:"primaryKey"`
	BorrowNo   string     `gorm:"uniqueIndex;size:32;not null;comment:借阅单号"`
	BookID     uint       `gorm:"index:idx_book_status;not null;comment:图书ID"`
	UserID     uint       `gorm:"index;not null;comment:借阅人用户ID"`
	Status     int        `gorm:"index:idx_book_status;type:tinyint;default:1;comment:借阅状态(1在借2已归还)"`
	BorrowedAt time.Time  `gorm:"not null;comment:借出时间"`
	ReturnedAt *time.Time `gorm:"comment:归还时间(NULL表示在借)"`
	CreatedAt  time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BorrowModel) TableName() string {
	return "borrows"
}
