// Package orders 订单提交服务的HTTP客户端
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiebiao/libratech/internal/domain/checkout"
	"github.com/xiebiao/libratech/internal/infrastructure/config"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// submitResponse 订单服务的提交响应
type submitResponse struct {
	OrderID string `json:"order_id"`
}

// Client 订单服务客户端(实现checkout.OrdersClient)
// 提交订单不走熔断器:下单是低频关键操作,用户宁可等满超时
// 也要一次真实的尝试;失败语义(状态不变、可重试)由Workflow保证
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient 创建订单客户端
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Orders.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Orders.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Submit 提交订单(POST /api/orders),成功返回订单号
func (c *Client) Submit(ctx context.Context, payload *checkout.OrderPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "序列化订单载荷失败")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(err, "构建订单请求失败")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.WrapWithCode(err, apperrors.ErrCodeOrderSubmit,
			"订单提交失败,请稍后重试")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", apperrors.WrapWithCode(
			fmt.Errorf("订单服务返回状态码%d", resp.StatusCode),
			apperrors.ErrCodeOrderSubmit, "订单提交失败,请稍后重试")
	}

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.WrapWithCode(err, apperrors.ErrCodeOrderSubmit,
			"解析订单响应失败")
	}

	return result.OrderID, nil
}
