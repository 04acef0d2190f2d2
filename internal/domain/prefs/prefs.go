// Package prefs 用户偏好(目前只有图书列表的排序偏好)
package prefs

import (
	"context"
	"errors"

	"github.com/xiebiao/libratech/internal/infrastructure/kvstore"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// SortOrder 图书列表排序方式
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortTitle     SortOrder = "title"
)

// DefaultSort 默认排序(键不存在时的语义)
const DefaultSort = SortNewest

// Valid 排序方式是否合法
func (s SortOrder) Valid() bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortTitle:
		return true
	}
	return false
}

// ErrInvalidSort 不支持的排序方式
var ErrInvalidSort = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的排序方式")

// Service 偏好服务
// 偏好与购物车共用同一个kvstore,键独立,互不影响
type Service struct {
	store kvstore.Store
}

// NewService 创建偏好服务
func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// GetSort 读取排序偏好(键不存在 → 默认排序)
func (s *Service) GetSort(ctx context.Context, userID uint) (SortOrder, error) {
	data, err := s.store.Get(ctx, kvstore.SortPrefKey(userID))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return DefaultSort, nil
		}
		return "", err
	}

	order := SortOrder(data)
	if !order.Valid() {
		// 存储内容不认识(可能来自旧版本):回退默认而不是报错
		return DefaultSort, nil
	}
	return order, nil
}

// SetSort 保存排序偏好(立即落盘)
func (s *Service) SetSort(ctx context.Context, userID uint, order SortOrder) error {
	if !order.Valid() {
		return ErrInvalidSort
	}
	return s.store.Set(ctx, kvstore.SortPrefKey(userID), []byte(order))
}
