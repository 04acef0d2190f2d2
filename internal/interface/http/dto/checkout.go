package dto

// ShippingRequest 收货地址表单(字段集开放,必填校验在领域层的前进谓词里)
type ShippingRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// DeliveryRequest 配送选项请求
type DeliveryRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"min=0"`
}

// PaymentRequest 支付方式请求
type PaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=card paypal"`
	Name   string `json:"name" binding:"required"`
}

// CardRequest 卡表单(校验在领域层:必填+卡号16位)
type CardRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}
