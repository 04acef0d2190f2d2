package cart

import (
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrInvalidBookID 图书ID为空
	ErrInvalidBookID = apperrors.New(apperrors.ErrCodeInvalidParams, "图书ID不能为空")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrCartEmpty 购物车为空
	ErrCartEmpty = apperrors.New(apperrors.ErrCodeCartEmpty, "购物车为空")

	// ErrConfirmRequired 清空购物车需要显式确认
	ErrConfirmRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "清空购物车需要确认(confirm=true)")
)
