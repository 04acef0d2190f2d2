package kvstore

import (
	"context"
	"sync"
)

// MemoryStore 内存键值存储
// 用途：单元测试与本地开发（不依赖Redis）
// 注意：进程重启数据丢失，仅在测试中模拟"重启后读回"
// （同一个MemoryStore实例重建上层服务即可）
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get 读取键值
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	// 返回副本，防止调用方修改内部状态
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

// Set 写入键值
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

// Delete 删除键
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
