package cart

import (
	"context"

	"github.com/xiebiao/libratech/internal/domain/cart"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// MutateCartUseCase 购物车变更用例(加购/改数量/移除/清空)
// 每个变更返回即持久化完成;响应带上最新的商品总数供界面更新角标
type MutateCartUseCase struct {
	cartService cart.Service
}

// NewMutateCartUseCase 创建购物车变更用例
func NewMutateCartUseCase(cartService cart.Service) *MutateCartUseCase {
	return &MutateCartUseCase{cartService: cartService}
}

// AddItem 加入购物车(已存在则数量累加)
func (uc *MutateCartUseCase) AddItem(ctx context.Context, userID uint, req AddItemRequest) (*MutateResponse, error) {
	c, err := uc.cartService.AddItem(ctx, userID, req.BookID, req.Quantity, req.Extra)
	if err != nil {
		return nil, err
	}
	return toMutateResponse(c), nil
}

// SetQuantity 覆盖数量(<=0等价于移除)
func (uc *MutateCartUseCase) SetQuantity(ctx context.Context, userID uint, bookID string, quantity int) (*MutateResponse, error) {
	c, err := uc.cartService.SetQuantity(ctx, userID, bookID, quantity)
	if err != nil {
		return nil, err
	}
	return toMutateResponse(c), nil
}

// RemoveItem 移除行项目
func (uc *MutateCartUseCase) RemoveItem(ctx context.Context, userID uint, bookID string) (*MutateResponse, error) {
	c, err := uc.cartService.RemoveItem(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return toMutateResponse(c), nil
}

// Clear 清空购物车
// 清空不可逆:请求必须带confirmed=true,证明界面已弹确认框
func (uc *MutateCartUseCase) Clear(ctx context.Context, userID uint, confirmed bool) (*MutateResponse, error) {
	if !confirmed {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "清空购物车需要确认")
	}

	if err := uc.cartService.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return &MutateResponse{ItemCount: 0}, nil
}

// ItemCount 查询商品总数(导航栏角标)
func (uc *MutateCartUseCase) ItemCount(ctx context.Context, userID uint) (int, error) {
	return uc.cartService.ItemCount(ctx, userID)
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	BookID   string
	Quantity int
	Extra    map[string]string
}

// MutateResponse 变更响应
type MutateResponse struct {
	ItemCount int `json:"item_count"`
}

func toMutateResponse(c *cart.Cart) *MutateResponse {
	return &MutateResponse{ItemCount: c.ItemCount()}
}
