package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 购物车模块集成测试
// 覆盖完整链路：Handler → UseCase → Service → Redis，对账部分依赖目录stub

// TestCartAddAndCount 测试加购与角标计数
func TestCartAddAndCount(t *testing.T) {
	_, token := RegisterTestUser(t, "cart_add")

	t.Run("首次加购", func(t *testing.T) {
		data := AddSeedBook(t, token, 2)
		assert.Equal(t, 2, data.ItemCount, "加购2本后角标应为2")
	})

	t.Run("重复加购数量累加", func(t *testing.T) {
		data := AddSeedBook(t, token, 3)
		assert.Equal(t, 5, data.ItemCount, "再加3本后角标应为5")
	})

	t.Run("角标接口与加购结果一致", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/cart/count", token)
		require.Equal(t, 0, resp.Code)

		var data MutateData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 5, data.ItemCount)
	})
}

// TestCartSetQuantity 测试数量覆盖与0删除语义
func TestCartSetQuantity(t *testing.T) {
	_, token := RegisterTestUser(t, "cart_qty")
	AddSeedBook(t, token, 2)

	t.Run("覆盖数量", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/cart/items/"+SeedBookID, map[string]int{"quantity": 7}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		var data MutateData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 7, data.ItemCount)
	})

	t.Run("数量0等价于移除", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/cart/items/"+SeedBookID, map[string]int{"quantity": 0}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		var data MutateData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 0, data.ItemCount)
	})
}

// TestCartClear 测试清空购物车的确认标记
func TestCartClear(t *testing.T) {
	_, token := RegisterTestUser(t, "cart_clear")
	AddSeedBook(t, token, 3)

	t.Run("未确认时拒绝清空", func(t *testing.T) {
		resp := DoJSON(t, http.MethodDelete, BaseURL+"/cart", map[string]bool{"confirmed": false}, token)
		assert.NotEqual(t, 0, resp.Code, "confirmed=false应被拒绝")

		countResp := GetJSON(t, BaseURL+"/cart/count", token)
		var data MutateData
		require.NoError(t, json.Unmarshal(countResp.Data, &data))
		assert.Equal(t, 3, data.ItemCount, "购物车应保持不变")
	})

	t.Run("确认后清空", func(t *testing.T) {
		resp := DoJSON(t, http.MethodDelete, BaseURL+"/cart", map[string]bool{"confirmed": true}, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		var data MutateData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 0, data.ItemCount)
	})
}

// TestCartView 测试购物车页面的实时对账
// 依赖目录stub返回SeedBookID的价格,这里只验证金额字段自洽而非具体数值
func TestCartView(t *testing.T) {
	_, token := RegisterTestUser(t, "cart_view")
	AddSeedBook(t, token, 1)

	resp := GetJSON(t, BaseURL+"/cart", token)
	require.Equal(t, 0, resp.Code, "对账失败: %s", resp.Message)

	var data CartViewData
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	assert.Equal(t, 1, data.ItemCount)
	assert.Positive(t, data.Subtotal.Cents, "小计应大于0")
	assert.Equal(t, data.Subtotal.Cents*10/100, data.Tax.Cents, "税费应为小计的10%")
	assert.Equal(t, data.Subtotal.Cents+data.Shipping.Cents+data.Tax.Cents, data.Total.Cents,
		"总价应等于小计+运费+税费")
	assert.NotEmpty(t, data.Total.Formatted, "金额应带欧元格式化串")
}

// TestCartPromo 测试促销码
func TestCartPromo(t *testing.T) {
	_, token := RegisterTestUser(t, "cart_promo")
	AddSeedBook(t, token, 1)

	t.Run("有效促销码", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/cart/promo", map[string]string{"code": "welcome10"}, token)
		require.Equal(t, 0, resp.Code, resp.Message)
	})

	t.Run("无效促销码", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/cart/promo", map[string]string{"code": "EXPIRED99"}, token)
		assert.Equal(t, 40002, resp.Code)
	})
}
