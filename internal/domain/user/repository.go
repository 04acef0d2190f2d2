package user

import (
	"context"
)

// Repository 顾客仓储接口
// 接口定义在domain层,实现在infrastructure/persistence/mysql
// (依赖倒置,domain层不依赖GORM)
type Repository interface {
	// Create 创建顾客(邮箱已存在时返回errors.ErrEmailDuplicate)
	Create(ctx context.Context, user *User) error

	// FindByID 按ID查找(不存在返回errors.ErrUserNotFound)
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 按邮箱查找(不存在返回errors.ErrUserNotFound)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新顾客信息
	Update(ctx context.Context, user *User) error
}
