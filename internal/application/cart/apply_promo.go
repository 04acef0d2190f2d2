package cart

import (
	"context"

	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/internal/domain/pricing"
	"github.com/xiebiao/libratech/internal/domain/promo"
)

// ApplyPromoUseCase 促销码用例
// 先对账拿到当前金额,再按促销码计算折扣;
// 折扣只回传给界面展示,不改动对账金额
type ApplyPromoUseCase struct {
	cartService cart.Service
	reconciler  *pricing.Reconciler
}

// NewApplyPromoUseCase 创建促销码用例
func NewApplyPromoUseCase(cartService cart.Service, reconciler *pricing.Reconciler) *ApplyPromoUseCase {
	return &ApplyPromoUseCase{
		cartService: cartService,
		reconciler:  reconciler,
	}
}

// Execute 应用促销码
func (uc *ApplyPromoUseCase) Execute(ctx context.Context, userID uint, code string) (*ApplyPromoResponse, error) {
	c, err := uc.cartService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := uc.reconciler.Reconcile(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	applied, err := promo.Apply(code, breakdown)
	if err != nil {
		return nil, err
	}

	return &ApplyPromoResponse{
		Code:     applied.Code.Name,
		Kind:     string(applied.Code.Kind),
		Discount: NewMoney(applied.Discount),
	}, nil
}

// ApplyPromoResponse 促销码响应
type ApplyPromoResponse struct {
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Discount Money  `json:"discount"`
}
