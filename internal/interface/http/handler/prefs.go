package handler

import (
	"github.com/gin-gonic/gin"

	appprefs "github.com/xiebiao/libratech/internal/application/prefs"
	"github.com/xiebiao/libratech/internal/interface/http/dto"
	"github.com/xiebiao/libratech/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/libratech/pkg/errors"
	"github.com/xiebiao/libratech/pkg/response"
)

// PrefsHandler 用户偏好HTTP处理器
type PrefsHandler struct {
	sortPrefUseCase *appprefs.SortPrefUseCase
}

// NewPrefsHandler 创建偏好处理器
func NewPrefsHandler(sortPrefUseCase *appprefs.SortPrefUseCase) *PrefsHandler {
	return &PrefsHandler{sortPrefUseCase: sortPrefUseCase}
}

// GetSort 读取排序偏好
// @Summary      排序偏好
// @Description  未设置过返回默认排序newest
// @Tags         偏好
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appprefs.SortPrefResponse}
// @Router       /api/v1/preferences/sort [get]
func (h *PrefsHandler) GetSort(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.sortPrefUseCase.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetSort 保存排序偏好
// @Summary      保存排序偏好
// @Tags         偏好
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SortPrefRequest true "排序方式"
// @Success      200 {object} response.Response{data=appprefs.SortPrefResponse}
// @Router       /api/v1/preferences/sort [put]
func (h *PrefsHandler) SetSort(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.SortPrefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.sortPrefUseCase.Set(c.Request.Context(), userID, req.Sort)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
