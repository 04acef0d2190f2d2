package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/libratech/internal/application/cart"
	"github.com/xiebiao/libratech/internal/interface/http/dto"
	"github.com/xiebiao/libratech/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	viewUseCase      *appcart.ViewCartUseCase
	mutateUseCase    *appcart.MutateCartUseCase
	promoUseCase     *appcart.ApplyPromoUseCase
	recommendUseCase *appcart.RecommendationsUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	viewUseCase *appcart.ViewCartUseCase,
	mutateUseCase *appcart.MutateCartUseCase,
	promoUseCase *appcart.ApplyPromoUseCase,
	recommendUseCase *appcart.RecommendationsUseCase,
) *CartHandler {
	return &CartHandler{
		viewUseCase:      viewUseCase,
		mutateUseCase:    mutateUseCase,
		promoUseCase:     promoUseCase,
		recommendUseCase: recommendUseCase,
	}
}

// View 购物车页面数据
// @Summary      查看购物车
// @Description  读取购物车并向目录服务实时对账定价
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.ViewCartResponse}
// @Failure      200 {object} response.Response "50010 目录服务不可用"
// @Router       /api/v1/cart [get]
func (h *CartHandler) View(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.viewUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  已在购物车中的图书数量累加
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddItemRequest true "加购信息"
// @Success      200 {object} response.Response{data=appcart.MutateResponse}
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.mutateUseCase.AddItem(c.Request.Context(), userID, appcart.AddItemRequest{
		BookID:   req.BookID,
		Quantity: req.Quantity,
		Extra:    req.Extra,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetQuantity 修改数量
// @Summary      修改数量
// @Description  覆盖指定图书的数量,0等价于移除
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path string true "图书ID"
// @Param        request body dto.SetQuantityRequest true "数量"
// @Success      200 {object} response.Response{data=appcart.MutateResponse}
// @Router       /api/v1/cart/items/{book_id} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	bookID := c.Param("book_id")

	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.mutateUseCase.SetQuantity(c.Request.Context(), userID, bookID, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveItem 移除图书
// @Summary      移除图书
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path string true "图书ID"
// @Success      200 {object} response.Response{data=appcart.MutateResponse}
// @Router       /api/v1/cart/items/{book_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	bookID := c.Param("book_id")

	result, err := h.mutateUseCase.RemoveItem(c.Request.Context(), userID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Clear 清空购物车
// @Summary      清空购物车
// @Description  不可逆操作,必须带confirmed=true
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ClearCartRequest true "确认标记"
// @Success      200 {object} response.Response{data=appcart.MutateResponse}
// @Router       /api/v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.ClearCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.mutateUseCase.Clear(c.Request.Context(), userID, req.Confirmed)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Count 商品总数(导航栏角标)
// @Summary      商品总数
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.MutateResponse}
// @Router       /api/v1/cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	count, err := h.mutateUseCase.ItemCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &appcart.MutateResponse{ItemCount: count})
}

// ApplyPromo 应用促销码
// @Summary      应用促销码
// @Description  返回折扣金额供展示,金额明细不变
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ApplyPromoRequest true "促销码"
// @Success      200 {object} response.Response{data=appcart.ApplyPromoResponse}
// @Failure      200 {object} response.Response "40002 促销码无效"
// @Router       /api/v1/cart/promo [post]
func (h *CartHandler) ApplyPromo(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.promoUseCase.Execute(c.Request.Context(), userID, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Recommendations 推荐位(空购物车时展示)
// @Summary      推荐图书
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=appcart.RecommendationsResponse}
// @Router       /api/v1/cart/recommendations [get]
func (h *CartHandler) Recommendations(c *gin.Context) {
	result, err := h.recommendUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
