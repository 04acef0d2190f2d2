package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if CartOperationsTotal == nil {
		t.Fatal("CartOperationsTotal应该已初始化")
	}
	if ReconcileStaleDropsTotal == nil {
		t.Fatal("ReconcileStaleDropsTotal应该已初始化")
	}

	// 重复初始化不应panic（promauto重复注册会panic，由initialized守卫拦截）
	InitMetrics()
}

func TestCartOperationCounter(t *testing.T) {
	InitMetrics()

	counter := CartOperationsTotal.With(map[string]string{"op": "add"})
	before := testutil.ToFloat64(counter)

	IncCounterVec(CartOperationsTotal, map[string]string{"op": "add"})
	IncCounterVec(CartOperationsTotal, map[string]string{"op": "add"})

	after := testutil.ToFloat64(counter)
	if after-before != 2 {
		t.Errorf("期望计数增加2，实际增加%v", after-before)
	}
}

func TestStaleDropCounter(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(ReconcileStaleDropsTotal)
	IncCounter(ReconcileStaleDropsTotal)
	after := testutil.ToFloat64(ReconcileStaleDropsTotal)

	if after-before != 1 {
		t.Errorf("期望计数增加1，实际增加%v", after-before)
	}
}

func TestNilSafety(t *testing.T) {
	// 未初始化的指标辅助函数应为no-op，不能panic
	IncCounter(nil)
	IncCounterVec(nil, map[string]string{"op": "add"})
	ObserveHistogram(nil, 1.23)
	SetGaugeVec(nil, map[string]string{"name": "catalog"}, 1)
}
