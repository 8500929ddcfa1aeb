package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/usecase"
)

// PointHandler は地点登録APIのハンドラー
type PointHandler struct {
	pointUseCase usecase.PointUseCase
}

// NewPointHandler は新しいPointHandlerインスタンスを作成
func NewPointHandler(pointUseCase usecase.PointUseCase) *PointHandler {
	return &PointHandler{
		pointUseCase: pointUseCase,
	}
}

// PostPoint は地点を登録するエンドポイント
// POST /points
func (h *PointHandler) PostPoint(c *gin.Context) {
	var req model.RegisterPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	point, err := h.pointUseCase.RegisterPoint(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register point")
		return
	}

	c.JSON(http.StatusCreated, point)
}
