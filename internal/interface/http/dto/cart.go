package dto

// AddItemRequest 加购请求
type AddItemRequest struct {
	BookID   string            `json:"book_id" binding:"required"`
	Quantity int               `json:"quantity" binding:"required,min=1"`
	Extra    map[string]string `json:"extra"`
}

// SetQuantityRequest 改数量请求
// 注意quantity没有min=1:0是合法输入(等价于移除)
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ClearCartRequest 清空购物车请求
// confirmed必须为true:清空不可逆,界面须先弹确认框
type ClearCartRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ApplyPromoRequest 促销码请求
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// SortPrefRequest 排序偏好请求
type SortPrefRequest struct {
	Sort string `json:"sort" binding:"required,oneof=newest price_asc price_desc title"`
}
