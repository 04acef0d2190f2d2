package checkout

import (
	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// ErrCartEmpty 购物车为空,无法确认订单
var ErrCartEmpty = apperrors.New(apperrors.ErrCodeCartEmpty, "购物车为空")

// ValidationError 步骤校验失败
// Fields为字段级错误(字段名 → 提示),供界面内联展示;
// Message为步骤级错误(如"请选择配送方式")。两者至少有一个非空。
// 校验失败从不改变结账状态,也不触碰购物车。
type ValidationError struct {
	Step    Step              `json:"step"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "表单校验失败"
}

// newFieldErrors 构造字段级校验错误
func newFieldErrors(step Step, fields map[string]string) *ValidationError {
	return &ValidationError{Step: step, Fields: fields}
}

// newStepError 构造步骤级校验错误
func newStepError(step Step, message string) *ValidationError {
	return &ValidationError{Step: step, Message: message}
}
