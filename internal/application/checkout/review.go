package checkout

import (
	"context"

	appcart "github.com/xiebiao/libratech/internal/application/cart"
	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/internal/domain/checkout"
	"github.com/xiebiao/libratech/internal/domain/pricing"
)

// ReviewUseCase 订单确认页用例
// 步骤4需要同时展示:结账状态(地址/配送/支付)+ 实时对账的金额明细
// 总计 = 对账总计 - 对账运费 + 所选配送方式的价格
// (对账用的是标准运费规则,确认页以用户选中的配送选项为准)
type ReviewUseCase struct {
	workflow    *checkout.Workflow
	cartService cart.Service
	reconciler  *pricing.Reconciler
}

// NewReviewUseCase 创建订单确认页用例
func NewReviewUseCase(workflow *checkout.Workflow, cartService cart.Service, reconciler *pricing.Reconciler) *ReviewUseCase {
	return &ReviewUseCase{
		workflow:    workflow,
		cartService: cartService,
		reconciler:  reconciler,
	}
}

// Execute 组装订单确认页数据
func (uc *ReviewUseCase) Execute(ctx context.Context, userID uint) (*ReviewResponse, error) {
	st, err := uc.workflow.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := uc.cartService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := uc.reconciler.Reconcile(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	// 以选中的配送选项覆盖标准运费
	shipping := breakdown.Shipping
	if st.Delivery != nil {
		shipping = st.Delivery.Price
	}
	total := breakdown.Subtotal + shipping + breakdown.Tax

	return &ReviewResponse{
		State:          toStateView(st),
		Items:          toReviewItems(breakdown),
		ItemCount:      breakdown.ItemCount,
		Subtotal:       appcart.NewMoney(breakdown.Subtotal),
		Shipping:       appcart.NewMoney(shipping),
		Tax:            appcart.NewMoney(breakdown.Tax),
		Total:          appcart.NewMoney(total),
		HasUnavailable: breakdown.HasUnavailableItems(c),
	}, nil
}

// ReviewResponse 订单确认页响应
type ReviewResponse struct {
	State          *StateView            `json:"state"`
	Items          []appcart.CartItemView `json:"items"`
	ItemCount      int                   `json:"item_count"`
	Subtotal       appcart.Money         `json:"subtotal"`
	Shipping       appcart.Money         `json:"shipping"`
	Tax            appcart.Money         `json:"tax"`
	Total          appcart.Money         `json:"total"`
	HasUnavailable bool                  `json:"has_unavailable"`
}

// toReviewItems 明细行 → 视图行
func toReviewItems(b *pricing.CartBreakdown) []appcart.CartItemView {
	items := make([]appcart.CartItemView, 0, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		items = append(items, appcart.CartItemView{
			BookID:     item.BookID,
			Title:      item.Book.Title,
			Author:     item.Book.Author,
			Image:      item.Book.Image,
			Quantity:   item.Quantity,
			Price:      appcart.NewMoney(item.Book.Price),
			LineTotal:  appcart.NewMoney(item.LineTotal),
			OutOfStock: item.OutOfStock(),
			LowStock:   item.LowStock(),
		})
	}
	return items
}
