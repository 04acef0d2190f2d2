package user

import (
	"time"
)

// User 顾客账户实体(聚合根)
// 密码只存bcrypt哈希,实体不暴露明文;
// 领域实体不带GORM tag,映射在infrastructure层的Repository实现里处理
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新顾客(hashedPassword必须已经过bcrypt加密)
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateNickname 更新昵称
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
