package cart

import (
	"context"
	"fmt"

	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/internal/domain/pricing"
)

// ViewCartUseCase 购物车页面用例
// 编排:读存储的购物车 → 对账(目录服务实时定价) → 组装展示DTO
// 对账失败时错误原样上抛,存储的购物车不受影响(界面降级展示)
type ViewCartUseCase struct {
	cartService cart.Service
	reconciler  *pricing.Reconciler
}

// NewViewCartUseCase 创建购物车页面用例
func NewViewCartUseCase(cartService cart.Service, reconciler *pricing.Reconciler) *ViewCartUseCase {
	return &ViewCartUseCase{
		cartService: cartService,
		reconciler:  reconciler,
	}
}

// Execute 执行购物车页面查询
func (uc *ViewCartUseCase) Execute(ctx context.Context, userID uint) (*ViewCartResponse, error) {
	c, err := uc.cartService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := uc.reconciler.Reconcile(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	return toViewResponse(c, breakdown), nil
}

// ViewCartResponse 购物车页面响应
type ViewCartResponse struct {
	Items     []CartItemView `json:"items"`
	ItemCount int            `json:"item_count"` // 按存储的购物车统计(含无法定价的行)
	Subtotal  Money          `json:"subtotal"`
	Shipping  Money          `json:"shipping"`
	Tax       Money          `json:"tax"`
	Total     Money          `json:"total"`

	// HasUnavailable 存储的购物车中有目录查不到的图书(已下架)
	HasUnavailable bool `json:"has_unavailable"`
}

// CartItemView 购物车行项目视图
type CartItemView struct {
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
	Price      Money  `json:"price"`
	LineTotal  Money  `json:"line_total"`
	OutOfStock bool   `json:"out_of_stock"` // 库存不足以满足购买数量
	LowStock   bool   `json:"low_stock"`    // 库存少于5本
}

// Money 金额(分+格式化欧元,界面直接用formatted)
type Money struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

// NewMoney 分 → Money
func NewMoney(cents int64) Money {
	return Money{
		Cents:     cents,
		Formatted: fmt.Sprintf("€%d.%02d", cents/100, cents%100),
	}
}

// toViewResponse 明细 → 展示DTO
func toViewResponse(c *cart.Cart, b *pricing.CartBreakdown) *ViewCartResponse {
	items := make([]CartItemView, 0, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		items = append(items, CartItemView{
			BookID:     item.BookID,
			Title:      item.Book.Title,
			Author:     item.Book.Author,
			Image:      item.Book.Image,
			Quantity:   item.Quantity,
			Price:      NewMoney(item.Book.Price),
			LineTotal:  NewMoney(item.LineTotal),
			OutOfStock: item.OutOfStock(),
			LowStock:   item.LowStock(),
		})
	}

	return &ViewCartResponse{
		Items:          items,
		ItemCount:      b.ItemCount,
		Subtotal:       NewMoney(b.Subtotal),
		Shipping:       NewMoney(b.Shipping),
		Tax:            NewMoney(b.Tax),
		Total:          NewMoney(b.Total),
		HasUnavailable: b.HasUnavailableItems(c),
	}
}
