package pricing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/pkg/metrics"
)

// CatalogClient 目录服务客户端接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现(HTTP+熔断器)
// 便于Mock测试,也便于将来更换传输方式
type CatalogClient interface {
	// FetchByIDs 按ID批量查询图书记录
	// 查不到的ID不在返回值中(不报错)
	FetchByIDs(ctx context.Context, ids []string) ([]BookRecord, error)

	// FetchLatest 查询最新上架的图书(空购物车推荐位)
	FetchLatest(ctx context.Context, limit int) ([]BookRecord, error)
}

// Reconciler 购物车对账器
// 职责:把"用户加购了什么"(Cart)与"目录服务的权威价格/库存"连接,
// 产出金额明细(CartBreakdown)
//
// 乱序响应守卫:
// 用户快速连续修改数量会触发多个并发对账请求,网络乱序时
// 旧请求的响应可能晚于新请求返回。如果直接采用,旧购物车的金额
// 会覆盖新购物车的金额。因此:
// 1. 每次对账领取一个单调递增的序号
// 2. 响应返回后,若序号已不是最新发出的,结果作废(ErrStaleReconciliation)
// "最后发出的请求获胜",而不是"最后返回的请求获胜"。
// 有了作废机制,无需显式取消在途请求。
//
// 序号按用户隔离:一个Reconciler实例服务全部用户,
// 只有同一用户的新请求才能作废旧请求,用户之间互不影响。
type Reconciler struct {
	catalog CatalogClient
	seqs    sync.Map // userID(uint) → *atomic.Uint64,每用户最新发出的对账序号
}

// NewReconciler 创建对账器
func NewReconciler(catalog CatalogClient) *Reconciler {
	return &Reconciler{catalog: catalog}
}

// seqFor 取该用户的序号守卫,首次访问时创建
func (r *Reconciler) seqFor(userID uint) *atomic.Uint64 {
	if v, ok := r.seqs.Load(userID); ok {
		return v.(*atomic.Uint64)
	}
	v, _ := r.seqs.LoadOrStore(userID, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

// Reconcile 对购物车进行定价对账
// 返回值约定:
// - 空购物车:零值明细,不发网络请求
// - 目录服务失败:零值明细 + ErrCatalogUnavailable(可恢复,购物车不受影响)
// - 响应过期:零值明细 + ErrStaleReconciliation(调用方丢弃即可)
func (r *Reconciler) Reconcile(ctx context.Context, userID uint, c *cart.Cart) (*CartBreakdown, error) {
	// 1. 空购物车直接返回零值,不打扰目录服务
	if c.IsEmpty() {
		return ZeroBreakdown(), nil
	}

	// 2. 领取该用户的序号(本次请求成为该用户"最新发出"的请求)
	seq := r.seqFor(userID)
	issued := seq.Add(1)

	// 3. 一次请求带上去重后的全部图书ID
	start := time.Now()
	books, err := r.catalog.FetchByIDs(ctx, c.BookIDs())
	metrics.ObserveHistogram(metrics.ReconcileDuration, time.Since(start).Seconds())

	// 4. 先判过期再判错误:过期响应无论成败都不能影响调用方状态
	if seq.Load() != issued {
		metrics.IncCounter(metrics.ReconcileStaleDropsTotal)
		return ZeroBreakdown(), ErrStaleReconciliation
	}

	if err != nil {
		metrics.IncCounter(metrics.ReconcileFailuresTotal)
		// 对账失败绝不触碰存储的购物车,返回零值明细供界面降级展示
		return ZeroBreakdown(), ErrCatalogUnavailable
	}

	// 5. 计算明细
	return compute(c, books), nil
}
