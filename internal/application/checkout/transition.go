package checkout

import (
	"context"

	"github.com/xiebiao/libratech/internal/domain/checkout"
)

// TransitionUseCase 结账流转用例
// 表单写入(地址/配送/支付/卡)与步骤流转(前进/后退/确认)的编排,
// 全部委托给领域层的Workflow,这里只做DTO转换
type TransitionUseCase struct {
	workflow *checkout.Workflow
}

// NewTransitionUseCase 创建结账流转用例
func NewTransitionUseCase(workflow *checkout.Workflow) *TransitionUseCase {
	return &TransitionUseCase{workflow: workflow}
}

// GetState 读取当前结账状态
func (uc *TransitionUseCase) GetState(ctx context.Context, userID uint) (*StateView, error) {
	st, err := uc.workflow.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toStateView(st), nil
}

// PutShipping 写入收货地址表单
func (uc *TransitionUseCase) PutShipping(ctx context.Context, userID uint, fields map[string]string) (*StateView, error) {
	st, err := uc.workflow.PutShipping(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	return toStateView(st), nil
}

// SelectDelivery 选中配送选项
func (uc *TransitionUseCase) SelectDelivery(ctx context.Context, userID uint, req DeliveryRequest) (*StateView, error) {
	st, err := uc.workflow.SelectDelivery(ctx, userID, checkout.DeliveryOption{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		return nil, err
	}
	return toStateView(st), nil
}

// SelectPayment 选中支付方式
func (uc *TransitionUseCase) SelectPayment(ctx context.Context, userID uint, req PaymentRequest) (*StateView, error) {
	st, err := uc.workflow.SelectPayment(ctx, userID, checkout.PaymentMethod{
		Method: req.Method,
		Name:   req.Name,
	})
	if err != nil {
		return nil, err
	}
	return toStateView(st), nil
}

// PutCard 写入卡表单
func (uc *TransitionUseCase) PutCard(ctx context.Context, userID uint, fields map[string]string) (*StateView, error) {
	st, err := uc.workflow.PutCard(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	return toStateView(st), nil
}

// Advance 前进一步(步骤4时触发订单提交)
func (uc *TransitionUseCase) Advance(ctx context.Context, userID uint) (*TransitionResponse, error) {
	st, result, err := uc.workflow.Advance(ctx, userID)
	if err != nil {
		// 校验错误也带上当前状态,界面需要知道停在哪一步
		if st != nil {
			return &TransitionResponse{State: toStateView(st)}, err
		}
		return nil, err
	}

	resp := &TransitionResponse{State: toStateView(st)}
	if result != nil {
		resp.Order = &OrderView{OrderID: result.OrderID}
	}
	return resp, nil
}

// Retreat 后退一步
func (uc *TransitionUseCase) Retreat(ctx context.Context, userID uint) (*TransitionResponse, error) {
	st, err := uc.workflow.Retreat(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TransitionResponse{State: toStateView(st)}, nil
}

// Confirm 确认下单(界面"确认订单"按钮直达,等价于步骤4的Advance)
func (uc *TransitionUseCase) Confirm(ctx context.Context, userID uint) (*TransitionResponse, error) {
	st, result, err := uc.workflow.Confirm(ctx, userID)
	if err != nil {
		if st != nil {
			return &TransitionResponse{State: toStateView(st)}, err
		}
		return nil, err
	}

	return &TransitionResponse{
		State: toStateView(st),
		Order: &OrderView{OrderID: result.OrderID},
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// DeliveryRequest 配送选项请求
type DeliveryRequest struct {
	ID    string
	Name  string
	Price int64
}

// PaymentRequest 支付方式请求
type PaymentRequest struct {
	Method string
	Name   string
}

// StateView 结账状态视图
// 卡号脱敏:只回传末4位,完整卡号只存在于服务端状态里
type StateView struct {
	Step     int                      `json:"step"`
	StepName string                   `json:"step_name"`
	Shipping map[string]string        `json:"shipping"`
	Delivery *checkout.DeliveryOption `json:"delivery"`
	Payment  *checkout.PaymentMethod  `json:"payment"`
	Card     map[string]string        `json:"card"`
}

// TransitionResponse 流转响应
type TransitionResponse struct {
	State *StateView `json:"state"`
	Order *OrderView `json:"order,omitempty"` // 订单提交成功时携带
}

// OrderView 订单视图
type OrderView struct {
	OrderID string `json:"order_id"`
}

// toStateView 领域状态 → 视图DTO
func toStateView(st *checkout.State) *StateView {
	return &StateView{
		Step:     int(st.Step),
		StepName: st.Step.String(),
		Shipping: st.Shipping,
		Delivery: st.Delivery,
		Payment:  st.Payment,
		Card:     maskCard(st.Card),
	}
}

// maskCard 卡表单脱敏(卡号只留末4位,CVC不回传)
func maskCard(card map[string]string) map[string]string {
	if len(card) == 0 {
		return map[string]string{}
	}

	masked := make(map[string]string, len(card))
	for k, v := range card {
		switch k {
		case "number":
			masked[k] = maskNumber(v)
		case "cvc":
			// 不回传
		default:
			masked[k] = v
		}
	}
	return masked
}

func maskNumber(number string) string {
	digits := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits <= 4 {
		return number
	}
	return "**** **** **** " + lastDigits(number, 4)
}

func lastDigits(s string, n int) string {
	out := make([]byte, 0, n)
	for i := len(s) - 1; i >= 0 && len(out) < n; i-- {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	// 反转
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
