package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appcheckout "github.com/xiebiao/libratech/internal/application/checkout"
	"github.com/xiebiao/libratech/internal/domain/checkout"
	"github.com/xiebiao/libratech/internal/interface/http/dto"
	"github.com/xiebiao/libratech/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/pkg/response"
)

// CheckoutHandler 结账HTTP处理器
// 步骤校验失败(ValidationError)时返回字段级错误,供前端逐字段标红
type CheckoutHandler struct {
	transitionUseCase *appcheckout.TransitionUseCase
	reviewUseCase     *appcheckout.ReviewUseCase
}

// NewCheckoutHandler 创建结账处理器
func NewCheckoutHandler(
	transitionUseCase *appcheckout.TransitionUseCase,
	reviewUseCase *appcheckout.ReviewUseCase,
) *CheckoutHandler {
	return &CheckoutHandler{
		transitionUseCase: transitionUseCase,
		reviewUseCase:     reviewUseCase,
	}
}

// GetState 当前结账状态
// @Summary      结账状态
// @Description  返回当前步骤与已录入的表单数据(刷新后恢复界面用)
// @Tags         结账
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcheckout.StateView}
// @Router       /api/v1/checkout [get]
func (h *CheckoutHandler) GetState(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.transitionUseCase.GetState(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PutShipping 写入收货地址表单
// @Summary      收货地址
// @Tags         结账
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ShippingRequest true "地址表单"
// @Success      200 {object} response.Response{data=appcheckout.StateView}
// @Router       /api/v1/checkout/shipping [put]
func (h *CheckoutHandler) PutShipping(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.transitionUseCase.PutShipping(c.Request.Context(), userID, req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SelectDelivery 选中配送选项
// @Summary      配送方式
// @Tags         结账
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.DeliveryRequest true "配送选项"
// @Success      200 {object} response.Response{data=appcheckout.StateView}
// @Router       /api/v1/checkout/delivery [put]
func (h *CheckoutHandler) SelectDelivery(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.transitionUseCase.SelectDelivery(c.Request.Context(), userID, appcheckout.DeliveryRequest{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SelectPayment 选中支付方式
// @Summary      支付方式
// @Tags         结账
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PaymentRequest true "支付方式"
// @Success      200 {object} response.Response{data=appcheckout.StateView}
// @Router       /api/v1/checkout/payment [put]
func (h *CheckoutHandler) SelectPayment(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.transitionUseCase.SelectPayment(c.Request.Context(), userID, appcheckout.PaymentRequest{
		Method: req.Method,
		Name:   req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PutCard 写入卡表单
// @Summary      卡信息
// @Tags         结账
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CardRequest true "卡表单"
// @Success      200 {object} response.Response{data=appcheckout.StateView}
// @Router       /api/v1/checkout/card [put]
func (h *CheckoutHandler) PutCard(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.transitionUseCase.PutCard(c.Request.Context(), userID, req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Advance 前进一步
// @Summary      前进
// @Description  运行当前步骤的校验;步骤4时触发订单提交
// @Tags         结账
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcheckout.TransitionResponse}
// @Failure      200 {object} response.Response "40010 校验未通过(带fields)"
// @Router       /api/v1/checkout/advance [post]
func (h *CheckoutHandler) Advance(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.transitionUseCase.Advance(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, result)
}

// Retreat 后退一步
// @Summary      后退
// @Description  无条件后退,下限步骤1
// @Tags         结账
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcheckout.TransitionResponse}
// @Router       /api/v1/checkout/retreat [post]
func (h *CheckoutHandler) Retreat(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.transitionUseCase.Retreat(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Confirm 确认下单
// @Summary      确认下单
// @Description  提交订单;成功后购物车清空、结账状态重置;失败时两者均不变,可直接重试
// @Tags         结账
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcheckout.TransitionResponse}
// @Failure      200 {object} response.Response "50011 订单提交失败(可重试)"
// @Router       /api/v1/checkout/confirm [post]
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.transitionUseCase.Confirm(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, result)
}

// Review 订单确认页数据
// @Summary      订单确认页
// @Description  结账状态 + 实时对账的金额明细(运费按所选配送选项)
// @Tags         结账
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcheckout.ReviewResponse}
// @Router       /api/v1/checkout/review [get]
func (h *CheckoutHandler) Review(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.reviewUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// renderError 结账错误渲染:ValidationError展开为字段级错误
func (h *CheckoutHandler) renderError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		message := verr.Message
		if message == "" {
			message = "表单校验失败"
		}
		response.FieldErrors(c, apperrors.ErrCodeStepNotValidated, message, verr.Fields)
		return
	}
	response.Error(c, err)
}
