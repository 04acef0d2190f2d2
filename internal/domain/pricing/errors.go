package pricing

import (
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// 定价领域错误定义
var (
	// ErrCatalogUnavailable 目录服务不可用(可恢复:调用方可重试对账)
	ErrCatalogUnavailable = apperrors.New(apperrors.ErrCodeCatalogDown, "商品目录服务暂时不可用,请稍后重试")

	// ErrStaleReconciliation 对账结果已过期
	// 有更新的对账请求在本次发出之后被发起,本次结果必须丢弃,
	// 防止乱序返回的旧响应覆盖新购物车的金额
	ErrStaleReconciliation = apperrors.New(apperrors.ErrCodeStaleReconcile, "对账结果已过期")
)
