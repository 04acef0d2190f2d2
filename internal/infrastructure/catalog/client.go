// Package catalog 商品目录服务的HTTP客户端
// 目录服务是价格与库存的权威来源,本服务每次对账都实时询问它,
// 绝不缓存价格(缓存的价格就是错误的价格)
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/libratech/internal/domain/pricing"
	"github.com/xiebiao/libratech/internal/infrastructure/config"
	"github.com/xiebiao/libratech/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/pkg/metrics"
)

// wireBook 目录服务的线上格式(价格是欧元浮点数)
type wireBook struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
	Image  string  `json:"image"`
}

// Client 目录服务客户端(实现pricing.CatalogClient)
// 所有请求过熔断器:目录服务故障时快速失败,
// 避免每次对账都等满超时拖垮结账链路
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient 创建目录客户端
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Catalog.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Catalog.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: circuitbreaker.NewCircuitBreaker("catalog", circuitbreaker.Config{
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
		}),
	}
}

// FetchByIDs 按ID批量查询图书(GET /api/cart/books?ids=a,b,c)
// 查不到的ID不在返回值中
func (c *Client) FetchByIDs(ctx context.Context, ids []string) ([]pricing.BookRecord, error) {
	endpoint := fmt.Sprintf("%s/api/cart/books?ids=%s",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	return c.fetch(ctx, endpoint)
}

// FetchLatest 查询最新上架的图书(GET /api/books?limit=N)
func (c *Client) FetchLatest(ctx context.Context, limit int) ([]pricing.BookRecord, error) {
	endpoint := fmt.Sprintf("%s/api/books?limit=%s", c.baseURL, strconv.Itoa(limit))
	return c.fetch(ctx, endpoint)
}

// fetch 发起GET请求并解析图书列表(目录服务返回裸JSON数组)
func (c *Client) fetch(ctx context.Context, endpoint string) ([]pricing.BookRecord, error) {
	var records []pricing.BookRecord

	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			// 读掉body让连接可复用
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("目录服务返回状态码%d", resp.StatusCode)
		}

		var books []wireBook
		if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
			return fmt.Errorf("解析目录响应失败: %w", err)
		}

		records = make([]pricing.BookRecord, 0, len(books))
		for _, b := range books {
			records = append(records, pricing.BookRecord{
				ID:     b.ID,
				Title:  b.Title,
				Author: b.Author,
				Price:  eurosToCents(b.Price),
				Stock:  b.Stock,
				Image:  b.Image,
			})
		}
		return nil
	})

	c.reportBreaker(err)

	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCatalogDown,
			"商品目录服务暂时不可用,请稍后重试")
	}

	return records, nil
}

// reportBreaker 上报熔断器指标
func (c *Client) reportBreaker(err error) {
	result := "success"
	switch {
	case err == circuitbreaker.ErrOpenState || err == circuitbreaker.ErrTooManyRequests:
		result = "rejected"
	case err != nil:
		result = "failure"
	}

	metrics.IncCounterVec(metrics.CircuitBreakerRequests,
		map[string]string{"name": c.breaker.Name(), "result": result})
	metrics.SetGaugeVec(metrics.CircuitBreakerState,
		map[string]string{"name": c.breaker.Name()}, float64(c.breaker.State()))
}

// eurosToCents 欧元浮点数 → 分
// 目录服务的价格是两位小数的浮点数,四舍五入消除二进制浮点误差
func eurosToCents(euros float64) int64 {
	return int64(math.Round(euros * 100))
}
