package cart

import (
	"time"
)

// LineItem 购物车行项目
// 设计说明:
// 1. BookID是目录服务的图书标识,本服务不展开图书详情
//    (价格/库存以对账时目录服务返回的为准,购物车只记"买什么、买几本")
// 2. Extra是可选的无结构附加属性包(如赠品标记、礼品包装),
//    刻意保持schema-less,不要发明固定字段
// 3. 序列化tag即持久化格式(JSON存入kvstore)
type LineItem struct {
	BookID   string            `json:"book_id"`
	Quantity int               `json:"quantity"`
	AddedAt  time.Time         `json:"added_at"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Cart 购物车(聚合根)
// 不变式:
// 1. 同一BookID至多一个LineItem(加购时数量合并)
// 2. Quantity >= 1(数量降到0等价于移除)
// 3. 保持插入顺序(渲染稳定性,正确性不依赖顺序)
//
// 所有方法都是纯命令函数:只改内存状态,不做IO。
// 持久化由Service负责,这让购物车规则可以脱离存储单测。
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewCart 创建空购物车
func NewCart() *Cart {
	return &Cart{Items: []LineItem{}}
}

// Add 加入购物车
// 业务规则:已存在的BookID数量累加,新BookID追加到末尾并记录加购时间
func (c *Cart) Add(bookID string, quantity int, extra map[string]string, now time.Time) error {
	if bookID == "" {
		return ErrInvalidBookID
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}

	c.Items = append(c.Items, LineItem{
		BookID:   bookID,
		Quantity: quantity,
		AddedAt:  now,
		Extra:    extra,
	})
	return nil
}

// Remove 移除行项目
// 不存在时为no-op(用户重复点击"移除"不报错)
func (c *Cart) Remove(bookID string) {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity 覆盖行项目数量
// 业务规则:
// - quantity <= 0 等价于Remove
// - 行项目不存在时为no-op(与原加购路径解耦,静默失败)
func (c *Cart) SetQuantity(bookID string, quantity int) {
	if quantity <= 0 {
		c.Remove(bookID)
		return
	}

	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear 清空购物车
// 注意:破坏性操作,调用边界(HTTP层)要求显式确认
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// ItemCount 商品总数(所有行项目数量之和)
// 纯函数,始终等于当前存储状态的数量和
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// BookIDs 返回去重后的图书ID列表(保持插入顺序)
// 用于对账时一次性向目录服务查询
func (c *Cart) BookIDs() []string {
	ids := make([]string, 0, len(c.Items))
	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if !seen[item.BookID] {
			seen[item.BookID] = true
			ids = append(ids, item.BookID)
		}
	}
	return ids
}

// Find 查找行项目,不存在返回nil
func (c *Cart) Find(bookID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			return &c.Items[i]
		}
	}
	return nil
}
