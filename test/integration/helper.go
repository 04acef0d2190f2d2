package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 运行前需要启动完整环境（MySQL、Redis、目录/订单服务的本地stub）：
//   make docker-up && make run
//   go test -v ./test/integration/...

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
	// SeedBookID 目录stub中预置的图书ID
	SeedBookID = "bk-001"
)

// Response 统一响应结构
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MutateData 购物车变更响应数据
type MutateData struct {
	ItemCount int `json:"item_count"`
}

// CartViewData 购物车页面响应数据
type CartViewData struct {
	ItemCount int       `json:"item_count"`
	Subtotal  MoneyData `json:"subtotal"`
	Shipping  MoneyData `json:"shipping"`
	Tax       MoneyData `json:"tax"`
	Total     MoneyData `json:"total"`
}

// MoneyData 金额展示
type MoneyData struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

// StateData 结账状态响应数据
type StateData struct {
	Step     int               `json:"step"`
	StepName string            `json:"step_name"`
	Shipping map[string]string `json:"shipping"`
}

// TransitionData 结账流转响应数据
type TransitionData struct {
	State StateData `json:"state"`
	Order *struct {
		OrderID string `json:"order_id"`
	} `json:"order"`
}

// DoJSON 发送带JSON体的请求并解析统一响应
func DoJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, http.MethodPost, url, data, token)
}

// PutJSON 发送PUT请求
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, http.MethodPut, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, http.MethodGet, url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
// 使用纳秒时间戳避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// RegisterTestUser 注册测试用户并返回Token
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// AddSeedBook 向购物车加入预置图书
func AddSeedBook(t *testing.T, token string, quantity int) *MutateData {
	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  SeedBookID,
		"quantity": quantity,
	}, token)
	require.Equal(t, 0, resp.Code, "加购失败: %s", resp.Message)

	var data MutateData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析加购响应失败")

	return &data
}

// ValidShippingForm 一份能通过校验的地址表单
func ValidShippingForm() map[string]string {
	return map[string]string{
		"first_name": "Jean",
		"last_name":  "Dupont",
		"email":      "jean@test.com",
		"address":    "12 Rue de la Paix",
		"city":       "Paris",
		"zip":        "75002",
		"country":    "FR",
	}
}
