package prefs

import (
	"context"

	"github.com/xiebiao/libratech/internal/domain/prefs"
)

// SortPrefUseCase 排序偏好用例
type SortPrefUseCase struct {
	prefService *prefs.Service
}

// NewSortPrefUseCase 创建排序偏好用例
func NewSortPrefUseCase(prefService *prefs.Service) *SortPrefUseCase {
	return &SortPrefUseCase{prefService: prefService}
}

// Get 读取排序偏好(未设置过返回默认排序)
func (uc *SortPrefUseCase) Get(ctx context.Context, userID uint) (*SortPrefResponse, error) {
	order, err := uc.prefService.GetSort(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SortPrefResponse{Sort: string(order)}, nil
}

// Set 保存排序偏好
func (uc *SortPrefUseCase) Set(ctx context.Context, userID uint, sort string) (*SortPrefResponse, error) {
	order := prefs.SortOrder(sort)
	if err := uc.prefService.SetSort(ctx, userID, order); err != nil {
		return nil, err
	}
	return &SortPrefResponse{Sort: string(order)}, nil
}

// SortPrefResponse 排序偏好响应
type SortPrefResponse struct {
	Sort string `json:"sort"`
}
