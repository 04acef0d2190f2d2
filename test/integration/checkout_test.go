package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 结账模块集成测试
// 走完整的四步向导：地址 → 配送 → 支付 → 确认

func advance(t *testing.T, token string) *Response {
	t.Helper()
	return PostJSON(t, BaseURL+"/checkout/advance", nil, token)
}

func transitionData(t *testing.T, resp *Response) *TransitionData {
	t.Helper()
	var data TransitionData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return &data
}

// TestCheckoutWizard 测试向导的推进与校验拦截
func TestCheckoutWizard(t *testing.T) {
	_, token := RegisterTestUser(t, "checkout_wizard")
	AddSeedBook(t, token, 1)

	t.Run("初始状态为步骤1", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/checkout", token)
		require.Equal(t, 0, resp.Code)

		var state StateData
		require.NoError(t, json.Unmarshal(resp.Data, &state))
		assert.Equal(t, 1, state.Step)
		assert.Equal(t, "shipping", state.StepName)
	})

	t.Run("地址缺字段时前进被拦截", func(t *testing.T) {
		form := ValidShippingForm()
		delete(form, "city")
		resp := PutJSON(t, BaseURL+"/checkout/shipping", map[string]interface{}{"fields": form}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		advResp := advance(t, token)
		assert.Equal(t, 40010, advResp.Code, "校验未通过应返回40010")
		assert.Contains(t, advResp.Fields, "city", "应返回缺失字段")
	})

	t.Run("补全地址后前进到配送", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/checkout/shipping",
			map[string]interface{}{"fields": ValidShippingForm()}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		advResp := advance(t, token)
		require.Equal(t, 0, advResp.Code, advResp.Message)
		assert.Equal(t, 2, transitionData(t, advResp).State.Step)
	})

	t.Run("选配送后前进到支付", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/checkout/delivery", map[string]interface{}{
			"id":    "standard",
			"name":  "Livraison standard",
			"price": 599,
		}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		advResp := advance(t, token)
		require.Equal(t, 0, advResp.Code, advResp.Message)
		assert.Equal(t, 3, transitionData(t, advResp).State.Step)
	})

	t.Run("卡号不合法时被拦截", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/checkout/payment",
			map[string]string{"method": "card", "name": "Carte bancaire"}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		resp = PutJSON(t, BaseURL+"/checkout/card", map[string]interface{}{
			"fields": map[string]string{
				"number": "4111 1111 1111",
				"name":   "Jean Dupont",
				"expiry": "12/27",
				"cvc":    "123",
			},
		}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		advResp := advance(t, token)
		assert.Equal(t, 40010, advResp.Code)
		assert.Contains(t, advResp.Fields, "number")
	})

	t.Run("合法卡信息后到达确认页", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/checkout/card", map[string]interface{}{
			"fields": map[string]string{
				"number": "4111 1111 1111 1111",
				"name":   "Jean Dupont",
				"expiry": "12/27",
				"cvc":    "123",
			},
		}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		advResp := advance(t, token)
		require.Equal(t, 0, advResp.Code, advResp.Message)
		assert.Equal(t, 4, transitionData(t, advResp).State.Step)
	})

	t.Run("后退无条件放行", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/checkout/retreat", nil, token)
		require.Equal(t, 0, resp.Code)
		assert.Equal(t, 3, transitionData(t, resp).State.Step)

		// 回到确认页,下一个用例继续
		advResp := advance(t, token)
		require.Equal(t, 0, advResp.Code, advResp.Message)
	})

	t.Run("确认页数据包含金额明细", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/checkout/review", token)
		require.Equal(t, 0, resp.Code, resp.Message)
	})

	t.Run("确认下单后状态重置购物车清空", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/checkout/confirm", nil, token)
		require.Equal(t, 0, resp.Code, "下单失败: %s", resp.Message)

		data := transitionData(t, resp)
		require.NotNil(t, data.Order, "应返回订单号")
		assert.NotEmpty(t, data.Order.OrderID)
		assert.Equal(t, 1, data.State.Step, "结账状态应重置回步骤1")

		countResp := GetJSON(t, BaseURL+"/cart/count", token)
		var count MutateData
		require.NoError(t, json.Unmarshal(countResp.Data, &count))
		assert.Equal(t, 0, count.ItemCount, "购物车应被清空")
	})
}

// TestCheckoutStatePersistence 测试刷新后恢复进度
func TestCheckoutStatePersistence(t *testing.T) {
	_, token := RegisterTestUser(t, "checkout_resume")
	AddSeedBook(t, token, 1)

	resp := PutJSON(t, BaseURL+"/checkout/shipping",
		map[string]interface{}{"fields": ValidShippingForm()}, token)
	require.Equal(t, 0, resp.Code, resp.Message)

	advResp := advance(t, token)
	require.Equal(t, 0, advResp.Code, advResp.Message)

	// 模拟刷新:重新GET状态
	stateResp := GetJSON(t, BaseURL+"/checkout", token)
	require.Equal(t, 0, stateResp.Code)

	var state StateData
	require.NoError(t, json.Unmarshal(stateResp.Data, &state))
	assert.Equal(t, 2, state.Step, "刷新后应停留在步骤2")
	assert.Equal(t, "Jean", state.Shipping["first_name"], "表单数据应保留")
}

// TestCheckoutEmptyCartConfirm 测试空购物车不可下单
func TestCheckoutEmptyCartConfirm(t *testing.T) {
	_, token := RegisterTestUser(t, "checkout_empty")

	resp := PostJSON(t, BaseURL+"/checkout/confirm", nil, token)
	assert.NotEqual(t, 0, resp.Code, "空购物车下单应被拒绝")
}
