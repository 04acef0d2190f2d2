package promo

import (
	"strings"

	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/internal/domain/pricing"
)

// 促销码引擎
// 设计说明:促销码是一张静态表,不走数据库——商城运营通过发版更新促销码
// (原型阶段的有意取舍,见各促销码定义)
//
// 注意:当前版本促销码的优惠"只展示、不入账"——applied结果返回折扣金额
// 供界面展示,但对账明细(CartBreakdown)的total不会减去它。
// TODO(checkout): 下单前把折扣金额合入订单提交金额,需要订单服务先支持discount字段

// Kind 促销码的优惠类型
type Kind string

const (
	// KindPercentOff 按小计的百分比折扣
	KindPercentOff Kind = "percent_off"

	// KindFreeShipping 免除运费
	KindFreeShipping Kind = "free_shipping"
)

// Code 促销码定义
type Code struct {
	Name    string `json:"name"`    // 规范形式(大写)
	Kind    Kind   `json:"kind"`    // 优惠类型
	Percent int64  `json:"percent"` // percent_off时的折扣百分比
}

// ErrInvalidCode 促销码无效(空白或查无此码)
var ErrInvalidCode = apperrors.New(apperrors.ErrCodeInvalidPromo, "促销码无效")

// codes 当前有效的促销码表
var codes = map[string]Code{
	"WELCOME10": {Name: "WELCOME10", Kind: KindPercentOff, Percent: 10},
	"FREESHIP":  {Name: "FREESHIP", Kind: KindFreeShipping},
}

// Applied 促销码应用结果(供界面展示)
type Applied struct {
	Code     Code  `json:"code"`
	Discount int64 `json:"discount"` // 折扣金额(分)
}

// Apply 对给定的金额明细应用促销码
// 规则:
// 1. 码不区分大小写,前后空白剔除后匹配
// 2. 剔除空白后为空 → ErrInvalidCode(不查表)
// 3. 查无此码 → ErrInvalidCode
// 4. percent_off按小计计算折扣;free_shipping折扣等于当次运费
//    (小计已包邮时折扣为0,码仍视为应用成功)
func Apply(raw string, b *pricing.CartBreakdown) (*Applied, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrInvalidCode
	}

	code, ok := codes[strings.ToUpper(trimmed)]
	if !ok {
		return nil, ErrInvalidCode
	}

	var discount int64
	switch code.Kind {
	case KindPercentOff:
		discount = b.Subtotal * code.Percent / 100
	case KindFreeShipping:
		discount = b.Shipping
	}

	return &Applied{Code: code, Discount: discount}, nil
}
