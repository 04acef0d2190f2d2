package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// fakeRepo 内存仓储(按邮箱索引)
type fakeRepo struct {
	users  map[string]*User
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}, nextID: 1}
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.Email] = u
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uint) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error {
	r.users[u.Email] = u
	return nil
}

// TestRegister 注册:密码被bcrypt加密,明文不落库
func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	u, err := svc.Register(ctx, "jean@example.com", "passw0rd123", "Jean")
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "passw0rd123", u.Password, "密码必须加密存储")
	assert.NoError(t, svc.ValidatePassword(u.Password, "passw0rd123"))
}

// TestRegister_Validation 注册参数校验
func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	t.Run("邮箱格式", func(t *testing.T) {
		_, err := svc.Register(ctx, "not-an-email", "passw0rd123", "Jean")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	})

	t.Run("密码太短", func(t *testing.T) {
		_, err := svc.Register(ctx, "a@b.com", "p1", "Jean")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	t.Run("密码缺数字", func(t *testing.T) {
		_, err := svc.Register(ctx, "a@b.com", "passwordonly", "Jean")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := svc.Register(ctx, "dup@example.com", "passw0rd123", "Jean")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "dup@example.com", "passw0rd456", "Marie")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

// TestLogin 登录成功与失败路径
func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	_, err := svc.Register(ctx, "jean@example.com", "passw0rd123", "Jean")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "jean@example.com", "passw0rd123")
	require.NoError(t, err)
	assert.Equal(t, "Jean", u.Nickname)

	_, err = svc.Login(ctx, "jean@example.com", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "ghost@example.com", "passw0rd123")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
