package checkout

// Step 结账步骤(1-4的线性状态机,另有一个终态"已提交")
type Step int

const (
	StepShipping Step = 1 // 收货地址
	StepDelivery Step = 2 // 配送方式
	StepPayment  Step = 3 // 支付方式
	StepReview   Step = 4 // 订单确认
)

// String 实现Stringer接口
func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// DeliveryOption 配送选项
type DeliveryOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"` // 配送费(分)
}

// PaymentMethod 支付方式
type PaymentMethod struct {
	Method string `json:"method"` // card / paypal
	Name   string `json:"name"`
}

// PaymentMethodCard 需要补充卡信息的支付方式
const PaymentMethodCard = "card"

// State 结账状态
// 设计说明:表单数据用field-map而非强类型结构体——
// 结账表单的字段集由店面迭代,服务端只校验必填字段,
// 多余字段原样透传到订单载荷(与购物车LineItem.Extra同一思路)
//
// 不变式:
// 1. Step每次变更立即持久化,刷新/重启后从原步骤恢复
// 2. 前进必须通过当前步骤的校验;后退无条件(下限步骤1)
// 3. Step不会超过4:第4步的"前进"触发订单提交而非推进
type State struct {
	Step     Step              `json:"step"`
	Shipping map[string]string `json:"shipping"`
	Delivery *DeliveryOption   `json:"delivery"`
	Payment  *PaymentMethod    `json:"payment"`
	Card     map[string]string `json:"card"`
}

// NewState 创建初始结账状态(步骤1,表单为空)
func NewState() *State {
	return &State{
		Step:     StepShipping,
		Shipping: map[string]string{},
		Card:     map[string]string{},
	}
}
