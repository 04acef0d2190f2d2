package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/internal/infrastructure/kvstore"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

const testUserID = uint(7)

// fakeOrders 订单服务的测试替身
type fakeOrders struct {
	err      error
	orderID  string
	payloads []*OrderPayload
}

func (f *fakeOrders) Submit(ctx context.Context, payload *OrderPayload) (string, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

// fakeEvents 事件发布的测试替身
type fakeEvents struct {
	routingKeys []string
}

func (f *fakeEvents) Publish(ctx context.Context, routingKey string, message any) error {
	f.routingKeys = append(f.routingKeys, routingKey)
	return nil
}

type fixture struct {
	workflow *Workflow
	carts    cart.Service
	store    kvstore.Store
	orders   *fakeOrders
	events   *fakeEvents
}

func newFixture() *fixture {
	store := kvstore.NewMemoryStore()
	carts := cart.NewService(store)
	orders := &fakeOrders{orderID: "ORD-1001"}
	events := &fakeEvents{}
	return &fixture{
		workflow: NewWorkflow(store, carts, orders, events),
		carts:    carts,
		store:    store,
		orders:   orders,
		events:   events,
	}
}

// validShipping 合法的收货地址表单
func validShipping() map[string]string {
	return map[string]string{
		"first_name": "Jean",
		"last_name":  "Dupont",
		"address":    "123 Rue de la Paix",
		"city":       "Paris",
		"zip":        "75001",
		"country":    "France",
		"email":      "jean@example.com",
	}
}

// validCard 合法的卡表单
func validCard() map[string]string {
	return map[string]string{
		"number": "4111 1111 1111 1111",
		"name":   "JEAN DUPONT",
		"expiry": "12/27",
		"cvc":    "123",
	}
}

// driveToStep 把工作流推进到指定步骤(填入合法数据逐步前进)
func driveToStep(t *testing.T, f *fixture, target Step) {
	t.Helper()
	ctx := context.Background()

	if target >= StepDelivery {
		_, err := f.workflow.PutShipping(ctx, testUserID, validShipping())
		require.NoError(t, err)
		_, _, err = f.workflow.Advance(ctx, testUserID)
		require.NoError(t, err)
	}
	if target >= StepPayment {
		_, err := f.workflow.SelectDelivery(ctx, testUserID,
			DeliveryOption{ID: "standard", Name: "标准配送", Price: 599})
		require.NoError(t, err)
		_, _, err = f.workflow.Advance(ctx, testUserID)
		require.NoError(t, err)
	}
	if target >= StepReview {
		_, err := f.workflow.SelectPayment(ctx, testUserID,
			PaymentMethod{Method: "card", Name: "银行卡"})
		require.NoError(t, err)
		_, err = f.workflow.PutCard(ctx, testUserID, validCard())
		require.NoError(t, err)
		_, _, err = f.workflow.Advance(ctx, testUserID)
		require.NoError(t, err)
	}
}

// TestAdvance_ShippingFieldError 步骤1缺必填字段:步骤不变+字段错误;补齐后再前进成功
func TestAdvance_ShippingFieldError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	incomplete := validShipping()
	incomplete["city"] = ""
	_, err := f.workflow.PutShipping(ctx, testUserID, incomplete)
	require.NoError(t, err)

	st, _, err := f.workflow.Advance(ctx, testUserID)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepShipping, verr.Step)
	assert.Contains(t, verr.Fields, "city")
	assert.Equal(t, StepShipping, st.Step, "校验失败时步骤不变")

	// 补齐字段后再前进成功
	_, err = f.workflow.PutShipping(ctx, testUserID, validShipping())
	require.NoError(t, err)
	st, _, err = f.workflow.Advance(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, st.Step)
}

// TestAdvance_EmailValidation 邮箱必须是local@domain.tld形式
func TestAdvance_EmailValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		email string
		valid bool
	}{
		{"jean@example.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"spa ce@example.com", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			f := newFixture()
			shipping := validShipping()
			shipping["email"] = tc.email
			_, err := f.workflow.PutShipping(ctx, testUserID, shipping)
			require.NoError(t, err)

			_, _, err = f.workflow.Advance(ctx, testUserID)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "email")
			}
		})
	}
}

// TestAdvance_DeliveryRequired 步骤2:未选配送方式不能前进
func TestAdvance_DeliveryRequired(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	driveToStep(t, f, StepDelivery)

	st, _, err := f.workflow.Advance(ctx, testUserID)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepDelivery, verr.Step)
	assert.NotEmpty(t, verr.Message)
	assert.Equal(t, StepDelivery, st.Step)
}

// TestAdvance_CardNumber 卡号剥离空格后必须恰好16位数字
func TestAdvance_CardNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("带空格的16位卡号通过", func(t *testing.T) {
		f := newFixture()
		driveToStep(t, f, StepPayment)
		_, err := f.workflow.SelectPayment(ctx, testUserID, PaymentMethod{Method: "card", Name: "银行卡"})
		require.NoError(t, err)

		card := validCard()
		card["number"] = "4111 1111 1111 1111"
		_, err = f.workflow.PutCard(ctx, testUserID, card)
		require.NoError(t, err)

		st, _, err := f.workflow.Advance(ctx, testUserID)
		require.NoError(t, err)
		assert.Equal(t, StepReview, st.Step)
	})

	t.Run("15位卡号被拒绝", func(t *testing.T) {
		f := newFixture()
		driveToStep(t, f, StepPayment)
		_, err := f.workflow.SelectPayment(ctx, testUserID, PaymentMethod{Method: "card", Name: "银行卡"})
		require.NoError(t, err)

		card := validCard()
		card["number"] = "4111 1111 1111 111"
		_, err = f.workflow.PutCard(ctx, testUserID, card)
		require.NoError(t, err)

		st, _, err := f.workflow.Advance(ctx, testUserID)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "number")
		assert.Equal(t, StepPayment, st.Step)
	})

	t.Run("非卡支付不校验卡信息", func(t *testing.T) {
		f := newFixture()
		driveToStep(t, f, StepPayment)
		_, err := f.workflow.SelectPayment(ctx, testUserID, PaymentMethod{Method: "paypal", Name: "PayPal"})
		require.NoError(t, err)

		st, _, err := f.workflow.Advance(ctx, testUserID)
		require.NoError(t, err)
		assert.Equal(t, StepReview, st.Step)
	})
}

// TestRetreat 后退无条件,下限步骤1
func TestRetreat(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	driveToStep(t, f, StepPayment)

	st, err := f.workflow.Retreat(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, st.Step)

	st, err = f.workflow.Retreat(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Step)

	// 已在步骤1,继续后退保持不变
	st, err = f.workflow.Retreat(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Step)
}

// TestReload_ResumesStep 重建工作流(模拟刷新/重启)后从原步骤恢复,不重新校验前面的步骤
func TestReload_ResumesStep(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	driveToStep(t, f, StepPayment)

	// 同一存储上重建工作流
	reloaded := NewWorkflow(f.store, f.carts, f.orders, f.events)
	st, err := reloaded.Get(ctx, testUserID)
	require.NoError(t, err)

	assert.Equal(t, StepPayment, st.Step, "应从步骤3恢复")
	assert.Equal(t, "Jean", st.Shipping["first_name"], "表单数据一并恢复")
	require.NotNil(t, st.Delivery)
	assert.Equal(t, "standard", st.Delivery.ID)
}

// TestConfirm_Success 步骤4前进触发订单提交:清空购物车+重置结账状态+发布事件
func TestConfirm_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.carts.AddItem(ctx, testUserID, "b1", 2, nil)
	require.NoError(t, err)
	driveToStep(t, f, StepReview)

	st, result, err := f.workflow.Advance(ctx, testUserID)
	require.NoError(t, err)

	require.NotNil(t, result)
	assert.Equal(t, "ORD-1001", result.OrderID)
	assert.Equal(t, StepShipping, st.Step, "提交成功后结账状态重置")
	assert.Empty(t, st.Shipping)

	// 订单载荷收齐了全部数据
	require.Len(t, f.orders.payloads, 1)
	payload := f.orders.payloads[0]
	assert.Equal(t, testUserID, payload.UserID)
	assert.Equal(t, "Jean", payload.Shipping["first_name"])
	assert.Equal(t, "standard", payload.Delivery.ID)
	assert.Equal(t, "card", payload.Payment.Method)
	assert.Equal(t, "4111 1111 1111 1111", payload.Card["number"])
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "b1", payload.Items[0].BookID)

	// 购物车已清空
	c, err := f.carts.Get(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	// 事件已发布
	assert.Equal(t, []string{"order.confirmed"}, f.events.routingKeys)
}

// TestConfirm_FailureKeepsEverything 提交失败:结账状态与购物车原封不动,可直接重试
func TestConfirm_FailureKeepsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.carts.AddItem(ctx, testUserID, "b1", 2, nil)
	require.NoError(t, err)
	driveToStep(t, f, StepReview)

	f.orders.err = errors.New("orders service: 503")
	st, result, err := f.workflow.Advance(ctx, testUserID)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrCodeOrderSubmit, apperrors.GetAppError(err).Code)
	assert.Equal(t, StepReview, st.Step, "失败时仍停在步骤4")
	assert.Equal(t, "Jean", st.Shipping["first_name"], "表单数据无丢失")

	c, err := f.carts.Get(ctx, testUserID)
	require.NoError(t, err)
	assert.False(t, c.IsEmpty(), "购物车不受影响")
	assert.Empty(t, f.events.routingKeys, "失败时不发布事件")

	// 同样的数据直接重试成功
	f.orders.err = nil
	_, result, err = f.workflow.Advance(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", result.OrderID)
}

// TestConfirm_EmptyCart 购物车为空时步骤4的校验挡住提交
func TestConfirm_EmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.carts.AddItem(ctx, testUserID, "b1", 1, nil)
	require.NoError(t, err)
	driveToStep(t, f, StepReview)

	// 到达步骤4后购物车被清空(另一个标签页)
	require.NoError(t, f.carts.Clear(ctx, testUserID))

	st, _, err := f.workflow.Advance(ctx, testUserID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepReview, verr.Step)
	assert.Equal(t, StepReview, st.Step)
	assert.Empty(t, f.orders.payloads, "不应发起订单提交")
}

// TestSelectPayment_SwitchClearsCard 切换到非卡支付时清掉已录入的卡信息
func TestSelectPayment_SwitchClearsCard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.workflow.SelectPayment(ctx, testUserID, PaymentMethod{Method: "card", Name: "银行卡"})
	require.NoError(t, err)
	_, err = f.workflow.PutCard(ctx, testUserID, validCard())
	require.NoError(t, err)

	st, err := f.workflow.SelectPayment(ctx, testUserID, PaymentMethod{Method: "paypal", Name: "PayPal"})
	require.NoError(t, err)
	assert.Empty(t, st.Card)
}

// TestUserIsolation 不同用户的结账状态互不影响
func TestUserIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	driveToStep(t, f, StepDelivery)

	other, err := f.workflow.Get(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, StepShipping, other.Step)
	assert.Empty(t, other.Shipping)
}
