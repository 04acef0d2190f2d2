package pricing

import (
	"github.com/xiebiao/libratech/internal/domain/cart"
)

// 金额常量
// 设计说明:价格使用int64存储"分"为单位(避免浮点数精度问题)
// €25.00的包邮门槛、€5.99的运费、10%的税率来自商城定价策略
const (
	// FreeShippingThreshold 包邮门槛(分):小计严格大于该值才免运费
	FreeShippingThreshold int64 = 2500

	// ShippingFee 标准运费(分)
	ShippingFee int64 = 599

	// TaxRatePercent 税率(百分比)
	TaxRatePercent int64 = 10
)

// BookRecord 图书记录(目录服务返回,对本服务只读)
// 价格与库存以目录服务为权威,购物车里不存价格
type BookRecord struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Price  int64  `json:"price"` // 价格(分)
	Stock  int    `json:"stock"`
	Image  string `json:"image"`
}

// PricedItem 定价后的行项目(LineItem与BookRecord的连接结果)
type PricedItem struct {
	cart.LineItem
	Book      BookRecord `json:"book"`
	LineTotal int64      `json:"line_total"` // price * quantity(分)
}

// OutOfStock 库存不足以满足购买数量
func (p *PricedItem) OutOfStock() bool {
	return p.Book.Stock < p.Quantity
}

// LowStock 低库存(少于5本)
func (p *PricedItem) LowStock() bool {
	return p.Book.Stock < 5
}

// CartBreakdown 购物车金额明细
// 派生数据,从不持久化,每次对账重新计算
//
// 注意ItemCount的口径:按"存储的购物车"统计,而不是定价后的items——
// 某本书在目录中已下架时,它被排除出定价,但用户加购的数量仍计入总数
// (总数反映用户加了什么,金额反映能定价的部分,这个不对称是有意的)
type CartBreakdown struct {
	Items     []PricedItem `json:"items"`
	Subtotal  int64        `json:"subtotal"`
	Shipping  int64        `json:"shipping"`
	Tax       int64        `json:"tax"`
	Total     int64        `json:"total"`
	ItemCount int          `json:"item_count"`
}

// ZeroBreakdown 零值明细(空购物车、对账失败时返回)
func ZeroBreakdown() *CartBreakdown {
	return &CartBreakdown{Items: []PricedItem{}}
}

// HasUnavailableItems 存储的购物车中有无法定价的行项目
// (图书已下架/目录中查不到),评审步骤需要据此提示用户
func (b *CartBreakdown) HasUnavailableItems(c *cart.Cart) bool {
	return len(b.Items) < len(c.Items)
}

// compute 根据购物车与目录记录计算明细
// 规则:
// 1. 目录中查不到的行项目从定价中剔除(但保留在存储的购物车里)
// 2. subtotal = Σ price*quantity
// 3. shipping = 0 当 subtotal > 2500,否则 599(严格边界:2500本身不包邮)
// 4. tax = subtotal * 10%(分为单位,整除精确)
// 5. itemCount 按原始购物车统计
func compute(c *cart.Cart, books []BookRecord) *CartBreakdown {
	byID := make(map[string]BookRecord, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	items := make([]PricedItem, 0, len(c.Items))
	var subtotal int64
	for _, line := range c.Items {
		book, ok := byID[line.BookID]
		if !ok {
			// 图书已下架:从定价视图剔除,购物车本身不动
			continue
		}
		lineTotal := book.Price * int64(line.Quantity)
		items = append(items, PricedItem{
			LineItem:  line,
			Book:      book,
			LineTotal: lineTotal,
		})
		subtotal += lineTotal
	}

	shipping := ShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * TaxRatePercent / 100

	return &CartBreakdown{
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Total:     subtotal + shipping + tax,
		ItemCount: c.ItemCount(),
	}
}
