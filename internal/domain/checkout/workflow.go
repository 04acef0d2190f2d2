package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/internal/infrastructure/kvstore"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/pkg/metrics"
)

// OrderPayload 订单提交载荷
// 在确认订单时一次性收齐:收货地址、配送选项、支付方式(含卡信息)、购物车快照
type OrderPayload struct {
	UserID   uint              `json:"user_id"`
	Shipping map[string]string `json:"shipping"`
	Delivery *DeliveryOption   `json:"delivery"`
	Payment  *PaymentMethod    `json:"payment"`
	Card     map[string]string `json:"card,omitempty"`
	Items    []cart.LineItem   `json:"items"`
}

// OrdersClient 订单服务客户端接口
// 由domain层定义接口,infrastructure层实现(HTTP)
type OrdersClient interface {
	// Submit 提交订单,成功返回订单号
	Submit(ctx context.Context, payload *OrderPayload) (orderID string, err error)
}

// EventPublisher 订单事件发布接口(mq.Publisher实现)
// 可为nil:事件发布是旁路能力,不影响主流程
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// ConfirmResult 订单确认结果
type ConfirmResult struct {
	OrderID string `json:"order_id"`
}

// =========================================
// 校验规则
// =========================================

// 必填的收货地址字段
var shippingRequiredFields = []string{"first_name", "last_name", "address", "city", "zip", "country"}

// 必填的卡字段
var cardRequiredFields = []string{"number", "name", "expiry", "cvc"}

// emailPattern 邮箱格式:local@domain.tld,各段非空且不含空白
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// cardNumberPattern 卡号剥离空格后必须是恰好16位数字
var cardNumberPattern = regexp.MustCompile(`^\d{16}$`)

// Workflow 结账工作流
// 设计说明:
// 1. 状态机属于单个用户,按user_id持久化在kvstore;
//    Workflow本身无状态,可安全被所有请求共享
// 2. 每次转移(前进/后退/表单更新)立即落盘,刷新后从原步骤恢复,
//    恢复时不重新校验已通过的步骤
// 3. 订单确认失败时结账状态和购物车原封不动,用户可直接重试
type Workflow struct {
	store  kvstore.Store
	carts  cart.Service
	orders OrdersClient
	events EventPublisher // 可为nil
}

// NewWorkflow 创建结账工作流
func NewWorkflow(store kvstore.Store, carts cart.Service, orders OrdersClient, events EventPublisher) *Workflow {
	return &Workflow{
		store:  store,
		carts:  carts,
		orders: orders,
		events: events,
	}
}

// Get 读取当前结账状态(键不存在返回初始状态)
func (w *Workflow) Get(ctx context.Context, userID uint) (*State, error) {
	return w.load(ctx, userID)
}

// PutShipping 写入收货地址表单(整体覆盖,不做校验——校验发生在前进时)
func (w *Workflow) PutShipping(ctx context.Context, userID uint, fields map[string]string) (*State, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if fields == nil {
		fields = map[string]string{}
	}
	st.Shipping = fields

	if err := w.save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SelectDelivery 选中配送选项(单选,覆盖之前的选择)
func (w *Workflow) SelectDelivery(ctx context.Context, userID uint, option DeliveryOption) (*State, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	st.Delivery = &option

	if err := w.save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SelectPayment 选中支付方式(单选)
// 切换到非卡支付时清掉已录入的卡信息
func (w *Workflow) SelectPayment(ctx context.Context, userID uint, method PaymentMethod) (*State, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	st.Payment = &method
	if method.Method != PaymentMethodCard {
		st.Card = map[string]string{}
	}

	if err := w.save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// PutCard 写入卡表单(整体覆盖,校验发生在前进时)
func (w *Workflow) PutCard(ctx context.Context, userID uint, fields map[string]string) (*State, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if fields == nil {
		fields = map[string]string{}
	}
	st.Card = fields

	if err := w.save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Advance 前进一步
// 1. 运行当前步骤的校验谓词,失败则步骤不变,返回ValidationError
// 2. 步骤1-3:校验通过后 step+1 并落盘
// 3. 步骤4:校验通过后触发订单提交(Confirm),不推进步骤
func (w *Workflow) Advance(ctx context.Context, userID uint) (*State, *ConfirmResult, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if verr := w.validate(ctx, userID, st); verr != nil {
		metrics.IncCounterVec(metrics.CheckoutTransitionsTotal,
			map[string]string{"direction": "advance", "result": "rejected"})
		return st, nil, verr
	}

	if st.Step == StepReview {
		// 终态转移:提交订单而不是推进步骤
		result, err := w.confirm(ctx, userID, st)
		if err != nil {
			return st, nil, err
		}
		// 提交成功后状态已重置,返回新状态
		fresh, err := w.load(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		return fresh, result, nil
	}

	st.Step++
	if err := w.save(ctx, userID, st); err != nil {
		return nil, nil, err
	}

	metrics.IncCounterVec(metrics.CheckoutTransitionsTotal,
		map[string]string{"direction": "advance", "result": "ok"})
	return st, nil, nil
}

// Retreat 后退一步
// 无条件(回头不需要校验),下限步骤1
func (w *Workflow) Retreat(ctx context.Context, userID uint) (*State, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if st.Step > StepShipping {
		st.Step--
		if err := w.save(ctx, userID, st); err != nil {
			return nil, err
		}
	}

	metrics.IncCounterVec(metrics.CheckoutTransitionsTotal,
		map[string]string{"direction": "retreat", "result": "ok"})
	return st, nil
}

// Confirm 确认订单(等价于在步骤4调用Advance,供界面的"确认下单"按钮直达)
func (w *Workflow) Confirm(ctx context.Context, userID uint) (*State, *ConfirmResult, error) {
	st, err := w.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if verr := w.validate(ctx, userID, st); verr != nil {
		return st, nil, verr
	}

	result, err := w.confirm(ctx, userID, st)
	if err != nil {
		return st, nil, err
	}
	fresh, err := w.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return fresh, result, nil
}

// =========================================
// 校验谓词
// =========================================

// validate 运行当前步骤的校验谓词
func (w *Workflow) validate(ctx context.Context, userID uint, st *State) *ValidationError {
	switch st.Step {
	case StepShipping:
		return validateShipping(st)
	case StepDelivery:
		return validateDelivery(st)
	case StepPayment:
		return validatePayment(st)
	case StepReview:
		return w.validateReview(ctx, userID)
	default:
		return nil
	}
}

// validateShipping 步骤1:必填字段非空 + 邮箱格式
func validateShipping(st *State) *ValidationError {
	fields := map[string]string{}
	for _, name := range shippingRequiredFields {
		if strings.TrimSpace(st.Shipping[name]) == "" {
			fields[name] = "该字段为必填项"
		}
	}
	if !emailPattern.MatchString(st.Shipping["email"]) {
		fields["email"] = "邮箱格式不正确"
	}

	if len(fields) > 0 {
		return newFieldErrors(StepShipping, fields)
	}
	return nil
}

// validateDelivery 步骤2:必须选中一个配送选项
func validateDelivery(st *State) *ValidationError {
	if st.Delivery == nil {
		return newStepError(StepDelivery, "请选择配送方式")
	}
	return nil
}

// validatePayment 步骤3:必须选中支付方式;卡支付另需完整卡信息
func validatePayment(st *State) *ValidationError {
	if st.Payment == nil {
		return newStepError(StepPayment, "请选择支付方式")
	}
	if st.Payment.Method != PaymentMethodCard {
		return nil
	}

	fields := map[string]string{}
	for _, name := range cardRequiredFields {
		if strings.TrimSpace(st.Card[name]) == "" {
			fields[name] = "该字段为必填项"
		}
	}
	// 卡号:剥离空格后必须是16位数字
	number := strings.ReplaceAll(st.Card["number"], " ", "")
	if !cardNumberPattern.MatchString(number) {
		fields["number"] = "卡号不正确"
	}

	if len(fields) > 0 {
		return newFieldErrors(StepPayment, fields)
	}
	return nil
}

// validateReview 步骤4:购物车必须非空
func (w *Workflow) validateReview(ctx context.Context, userID uint) *ValidationError {
	c, err := w.carts.Get(ctx, userID)
	if err != nil {
		return newStepError(StepReview, "购物车读取失败")
	}
	if c.IsEmpty() {
		return newStepError(StepReview, "购物车为空")
	}
	return nil
}

// =========================================
// 订单提交
// =========================================

// confirm 收齐载荷并提交订单
// 成功:清空购物车、重置结账状态、发布order.confirmed事件
// 失败:结账状态与购物车均不变(无数据丢失,可直接重试)
func (w *Workflow) confirm(ctx context.Context, userID uint, st *State) (*ConfirmResult, error) {
	c, err := w.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}

	payload := &OrderPayload{
		UserID:   userID,
		Shipping: st.Shipping,
		Delivery: st.Delivery,
		Payment:  st.Payment,
		Items:    c.Items,
	}
	if st.Payment != nil && st.Payment.Method == PaymentMethodCard {
		payload.Card = st.Card
	}

	orderID, err := w.orders.Submit(ctx, payload)
	if err != nil {
		metrics.IncCounter(metrics.OrdersFailedTotal)
		// 提交失败:任何状态都不动,直接把可恢复错误交给上层
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeOrderSubmit, "订单提交失败,请稍后重试")
	}

	// 提交成功:先清购物车再重置结账状态
	// (两步都失败概率极低;若清购物车成功而重置状态失败,
	// 下一次确认会因购物车为空被步骤4挡住,不会重复下单)
	if err := w.carts.Clear(ctx, userID); err != nil {
		return nil, err
	}
	if err := w.save(ctx, userID, NewState()); err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersConfirmedTotal)
	metrics.IncCounterVec(metrics.CheckoutTransitionsTotal,
		map[string]string{"direction": "advance", "result": "ok"})

	// 事件发布失败不影响下单结果(旁路)
	if w.events != nil {
		_ = w.events.Publish(ctx, "order.confirmed", map[string]any{
			"order_id": orderID,
			"user_id":  userID,
		})
	}

	return &ConfirmResult{OrderID: orderID}, nil
}

// =========================================
// 持久化(JSON ↔ kvstore)
// =========================================

// load 读回结账状态,键不存在 → 初始状态(步骤1)
func (w *Workflow) load(ctx context.Context, userID uint) (*State, error) {
	data, err := w.store.Get(ctx, kvstore.CheckoutKey(userID))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return NewState(), nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, apperrors.Wrap(err, "结账状态数据损坏")
	}
	if st.Shipping == nil {
		st.Shipping = map[string]string{}
	}
	if st.Card == nil {
		st.Card = map[string]string{}
	}
	if st.Step < StepShipping || st.Step > StepReview {
		st.Step = StepShipping
	}

	return &st, nil
}

// save 立即持久化
func (w *Workflow) save(ctx context.Context, userID uint, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return apperrors.Wrap(err, "序列化结账状态失败")
	}
	return w.store.Set(ctx, kvstore.CheckoutKey(userID), data)
}
