package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用户模块集成测试
// 覆盖注册、登录、登出与Token黑名单

func TestUserRegister(t *testing.T) {
	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("normal_user")
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试用户",
		}, "")
		require.Equal(t, 0, resp.Code, "注册应该成功: %s", resp.Message)

		var data RegisterData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, email, data.Email)
	})

	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email := GenerateTestEmail("duplicate_user")
		req := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp1 := PostJSON(t, BaseURL+"/users/register", req, "")
		require.Equal(t, 0, resp1.Code)

		resp2 := PostJSON(t, BaseURL+"/users/register", req, "")
		assert.NotEqual(t, 0, resp2.Code, "重复邮箱应被拒绝")
	})

	t.Run("弱密码应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    GenerateTestEmail("weak_pass"),
			"password": "short",
			"nickname": "测试用户",
		}, "")
		assert.NotEqual(t, 0, resp.Code)
	})
}

func TestUserLoginLogout(t *testing.T) {
	_, token := RegisterTestUser(t, "login_user")

	t.Run("Token可访问受保护接口", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/cart/count", token)
		assert.Equal(t, 0, resp.Code)
	})

	t.Run("登出后Token进入黑名单", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/logout", nil, token)
		require.Equal(t, 0, resp.Code, resp.Message)

		resp = GetJSON(t, BaseURL+"/cart/count", token)
		assert.NotEqual(t, 0, resp.Code, "登出后的Token应被拒绝")
	})

	t.Run("错误密码登录失败", func(t *testing.T) {
		email, _ := RegisterTestUser(t, "wrong_pass")
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    email,
			"password": "Wrong9999",
		}, "")
		assert.NotEqual(t, 0, resp.Code)
	})
}
