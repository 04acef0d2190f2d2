package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/xiebiao/libratech/internal/infrastructure/kvstore"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/pkg/metrics"
)

// Service 购物车领域服务接口
// 设计说明:
// 1. 购物车是用户资产:每个操作都是"读回→应用命令→立即落盘",
//    操作返回即持久化完成,崩溃/刷新后立刻可见(同步持久语义)
// 2. 并发模型:一个用户只有一个客户端在改自己的购物车
//    (对应浏览器单UI线程),同用户并发写是last-write-wins,
//    服务端不加锁;跨用户天然隔离(键按user_id区分)
// 3. 对账失败绝不触碰存储的购物车(购物车是用户的事实源,定价只是视图)
type Service interface {
	// AddItem 加入购物车(已存在则数量累加)
	AddItem(ctx context.Context, userID uint, bookID string, quantity int, extra map[string]string) (*Cart, error)

	// RemoveItem 移除行项目(不存在为no-op)
	RemoveItem(ctx context.Context, userID uint, bookID string) (*Cart, error)

	// SetQuantity 覆盖数量(<=0等价于移除,不存在为no-op)
	SetQuantity(ctx context.Context, userID uint, bookID string, quantity int) (*Cart, error)

	// Clear 清空购物车(调用边界必须已获得用户显式确认)
	Clear(ctx context.Context, userID uint) error

	// Get 读取当前购物车(键不存在返回空购物车)
	Get(ctx context.Context, userID uint) (*Cart, error)

	// ItemCount 商品总数
	ItemCount(ctx context.Context, userID uint) (int, error)
}

type service struct {
	store kvstore.Store
	now   func() time.Time // 可注入,测试时固定时间
}

// NewService 创建购物车服务
func NewService(store kvstore.Store) Service {
	return &service{
		store: store,
		now:   time.Now,
	}
}

// AddItem 加入购物车
func (s *service) AddItem(ctx context.Context, userID uint, bookID string, quantity int, extra map[string]string) (*Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.Add(bookID, quantity, extra, s.now()); err != nil {
		return nil, err
	}

	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "add"})
	return c, nil
}

// RemoveItem 移除行项目
func (s *service) RemoveItem(ctx context.Context, userID uint, bookID string) (*Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Remove(bookID)

	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "remove"})
	return c, nil
}

// SetQuantity 覆盖数量
func (s *service) SetQuantity(ctx context.Context, userID uint, bookID string, quantity int) (*Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.SetQuantity(bookID, quantity)

	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "set_quantity"})
	return c, nil
}

// Clear 清空购物车
func (s *service) Clear(ctx context.Context, userID uint) error {
	c, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	c.Clear()

	if err := s.save(ctx, userID, c); err != nil {
		return err
	}

	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "clear"})
	return nil
}

// Get 读取当前购物车
func (s *service) Get(ctx context.Context, userID uint) (*Cart, error) {
	return s.load(ctx, userID)
}

// ItemCount 商品总数
func (s *service) ItemCount(ctx context.Context, userID uint) (int, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.ItemCount(), nil
}

// =========================================
// 持久化(JSON ↔ kvstore)
// =========================================

// load 从存储读回购物车
// 键不存在 → 空购物车(默认值语义,不是错误)
func (s *service) load(ctx context.Context, userID uint) (*Cart, error) {
	data, err := s.store.Get(ctx, kvstore.CartKey(userID))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return NewCart(), nil
		}
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// 存储内容损坏:不丢用户数据没有意义(已经读不回了),
		// 返回错误让上层暴露问题,而不是静默重置
		return nil, apperrors.Wrap(err, "购物车数据损坏")
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}

	return &c, nil
}

// save 立即持久化
func (s *service) save(ctx context.Context, userID uint, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return apperrors.Wrap(err, "序列化购物车失败")
	}
	return s.store.Set(ctx, kvstore.CartKey(userID), data)
}
