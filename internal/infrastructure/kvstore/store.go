// Package kvstore 提供通用的持久化键值存储抽象
//
// 设计说明：
// 1. 购物车、结算进度、排序偏好都是"用户级持久化小块数据"，
//    统一走一个简单的blob存储接口，调用方自己负责序列化
// 2. 存储对调用方是"哑"的：不理解值的结构，只保证崩溃/重启后可读回
// 3. 键不存在返回ErrKeyNotFound，调用方据此使用默认值
//    （空购物车、第1步、默认排序）
package kvstore

import (
	"context"
	"fmt"

	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// ErrKeyNotFound 键不存在
// 语义：不是错误路径，调用方应回退到默认值
var ErrKeyNotFound = apperrors.ErrKeyNotFound

// Store 持久化键值存储接口
// 实现：RedisStore（生产）、MemoryStore（测试/本地开发）
type Store interface {
	// Get 读取键值，键不存在返回ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入键值，立即持久化（写入返回即落盘语义）
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除键，键不存在时为no-op
	Delete(ctx context.Context, key string) error
}

// =========================================
// 固定键构造函数
// =========================================
// 键设计：libratech:{业务域}:{user_id}
// 使用冒号分隔命名空间，便于在Redis中按前缀管理和监控

// CartKey 购物车内容键
func CartKey(userID uint) string {
	return fmt.Sprintf("libratech:cart:%d", userID)
}

// CheckoutKey 结算流程状态键（含当前步骤和已填写的表单数据）
func CheckoutKey(userID uint) string {
	return fmt.Sprintf("libratech:checkout:%d", userID)
}

// SortPrefKey 图书列表排序偏好键
func SortPrefKey(userID uint) string {
	return fmt.Sprintf("libratech:pref:sort:%d", userID)
}
