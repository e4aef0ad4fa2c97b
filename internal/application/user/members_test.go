package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memUserRepo 内存用户仓储(单元测试用)
type memUserRepo struct {
	users  map[uint]*user.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*user.User), nextID: 1}
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) LockByID(ctx context.Context, id uint) (*user.User, error) {
	// 单元测试中事务已直通执行,等价于FindByID
	return r.FindByID(ctx, id)
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) Update(ctx context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(ctx context.Context, page, pageSize int) ([]*user.User, int64, error) {
	var all []*user.User
	for _, u := range r.users {
		cp := *u
		all = append(all, &cp)
	}
	return all, int64(len(all)), nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// passTx 直通事务(单元测试用)
// before钩子在事务函数执行前触发,用于模拟事务开启前恰好提交的并发操作
type passTx struct {
	before func()
}

func (t *passTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.before != nil {
		t.before()
	}
	return fn(ctx)
}

// stubBorrowRepo 只关心在借计数的借阅仓储桩
type stubBorrowRepo struct {
	activeByUser map[uint]int64
}

func (r *stubBorrowRepo) Create(ctx context.Context, rec *borrow.Record) error { return nil }
func (r *stubBorrowRepo) FindByID(ctx context.Context, id uint) (*borrow.Record, error) {
	return nil, borrow.ErrBorrowNotFound
}
func (r *stubBorrowRepo) FindByBorrowNo(ctx context.Context, no string) (*borrow.Record, error) {
	return nil, borrow.ErrBorrowNotFound
}
func (r *stubBorrowRepo) Update(ctx context.Context, rec *borrow.Record) error { return nil }
func (r *stubBorrowRepo) ListByBook(ctx context.Context, bookID uint, page, pageSize int) ([]*borrow.Record, int64, error) {
	return nil, 0, nil
}
func (r *stubBorrowRepo) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*borrow.Record, int64, error) {
	return nil, 0, nil
}
func (r *stubBorrowRepo) List(ctx context.Context, status *borrow.Status, page, pageSize int) ([]*borrow.Record, int64, error) {
	return nil, 0, nil
}
func (r *stubBorrowRepo) CountActiveByBook(ctx context.Context, bookID uint) (int64, error) {
	return 0, nil
}
func (r *stubBorrowRepo) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	return r.activeByUser[userID], nil
}

func seedUser(t *testing.T, repo *memUserRepo, email, role string) *user.User {
	t.Helper()
	u := user.NewUser(email, "$2a$12$fakehash", "测试读者")
	u.Role = role
	u.IsVerified = true
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestBootstrap_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("未配置时跳过", func(t *testing.T) {
		repo := newMemUserRepo()
		uc := NewBootstrapUseCase(repo)

		err := uc.EnsureAdmin(ctx, config.AdminConfig{})

		assert.NoError(t, err)
		assert.Empty(t, repo.users, "未配置时不应创建任何账号")
	})

	t.Run("冷启动创建管理员", func(t *testing.T) {
		repo := newMemUserRepo()
		uc := NewBootstrapUseCase(repo)

		err := uc.EnsureAdmin(ctx, config.AdminConfig{
			Email:    "admin@library.local",
			Password: "Admin12345",
		})
		require.NoError(t, err)

		admin, err := repo.FindByEmail(ctx, "admin@library.local")
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, admin.Role)
		assert.True(t, admin.IsVerified, "管理员账号应该免验证")
		// 密码必须是bcrypt哈希,不能明文落库
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("Admin12345")))
	})

	t.Run("重复启动幂等", func(t *testing.T) {
		repo := newMemUserRepo()
		uc := NewBootstrapUseCase(repo)
		cfg := config.AdminConfig{Email: "admin@library.local", Password: "Admin12345"}

		require.NoError(t, uc.EnsureAdmin(ctx, cfg))
		first, _ := repo.FindByEmail(ctx, cfg.Email)

		require.NoError(t, uc.EnsureAdmin(ctx, cfg))
		second, _ := repo.FindByEmail(ctx, cfg.Email)

		assert.Equal(t, first.ID, second.ID, "重复引导不应创建新账号")
		assert.Equal(t, first.Password, second.Password, "重复引导不应覆盖密码")
	})

	t.Run("已存在的普通账号提升为管理员", func(t *testing.T) {
		repo := newMemUserRepo()
		u := seedUser(t, repo, "admin@library.local", user.RoleUser)
		uc := NewBootstrapUseCase(repo)

		err := uc.EnsureAdmin(ctx, config.AdminConfig{
			Email:    "admin@library.local",
			Password: "Admin12345",
		})
		require.NoError(t, err)

		promoted, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, promoted.Role)
	})
}

func TestProfile_Execute(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	u := seedUser(t, repo, "reader@test.com", user.RoleUser)
	uc := NewProfileUseCase(repo)

	t.Run("查询本人资料", func(t *testing.T) {
		result, err := uc.Execute(ctx, u.ID)
		require.NoError(t, err)

		assert.Equal(t, u.ID, result.ID)
		assert.Equal(t, "reader@test.com", result.Email)
		assert.Equal(t, user.RoleUser, result.Role)
		assert.True(t, result.IsVerified)
		_, err = time.Parse("2006-01-02 15:04:05", result.CreatedAt)
		assert.NoError(t, err, "注册时间应该是格式化后的字符串")
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := uc.Execute(ctx, 999)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestRemoveMember_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("注销普通读者", func(t *testing.T) {
		repo := newMemUserRepo()
		u := seedUser(t, repo, "bye@test.com", user.RoleUser)
		uc := NewRemoveMemberUseCase(repo, &stubBorrowRepo{}, &passTx{})

		err := uc.Execute(ctx, u.ID)
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, u.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("管理员账号不允许注销", func(t *testing.T) {
		repo := newMemUserRepo()
		u := seedUser(t, repo, "admin@test.com", user.RoleAdmin)
		uc := NewRemoveMemberUseCase(repo, &stubBorrowRepo{}, &passTx{})

		err := uc.Execute(ctx, u.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = repo.FindByID(ctx, u.ID)
		assert.NoError(t, err, "管理员账号应该仍然存在")
	})

	t.Run("有在借图书时拒绝注销", func(t *testing.T) {
		repo := newMemUserRepo()
		u := seedUser(t, repo, "reading@test.com", user.RoleUser)
		uc := NewRemoveMemberUseCase(repo, &stubBorrowRepo{activeByUser: map[uint]int64{u.ID: 2}}, &passTx{})

		err := uc.Execute(ctx, u.ID)
		assert.ErrorIs(t, err, user.ErrHasActiveBorrows)

		_, err = repo.FindByID(ctx, u.ID)
		assert.NoError(t, err, "注销失败时账号应该保留")
	})

	t.Run("用户不存在", func(t *testing.T) {
		uc := NewRemoveMemberUseCase(newMemUserRepo(), &stubBorrowRepo{}, &passTx{})
		err := uc.Execute(ctx, 999)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("注销事务开启前并发借书被事务内重查拦下", func(t *testing.T) {
		// 场景:管理员查看时该读者无在借,点注销的瞬间恰好有一笔借书提交
		// 在借计数必须在注销事务内、持有用户行锁后重新统计,否则会删掉
		// 一个还背着在借图书的账号,留下永远无法归还的记录
		repo := newMemUserRepo()
		u := seedUser(t, repo, "racing@test.com", user.RoleUser)

		borrowRepo := &stubBorrowRepo{activeByUser: map[uint]int64{}}
		tx := &passTx{before: func() {
			borrowRepo.activeByUser[u.ID] = 1
		}}

		uc := NewRemoveMemberUseCase(repo, borrowRepo, tx)
		err := uc.Execute(ctx, u.ID)
		assert.ErrorIs(t, err, user.ErrHasActiveBorrows)

		_, err = repo.FindByID(ctx, u.ID)
		assert.NoError(t, err, "注销被拒绝时账号应该保留")
	})
}
