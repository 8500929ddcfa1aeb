package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/usecase"
)

// SearchAreaHandler は検索範囲APIのハンドラー
type SearchAreaHandler struct {
	searchAreaUseCase usecase.SearchAreaUseCase
}

// NewSearchAreaHandler は新しいSearchAreaHandlerインスタンスを作成
func NewSearchAreaHandler(searchAreaUseCase usecase.SearchAreaUseCase) *SearchAreaHandler {
	return &SearchAreaHandler{
		searchAreaUseCase: searchAreaUseCase,
	}
}

// PostSearchArea は地図上の地点から検索範囲を作成するエンドポイント
// POST /search-areas
func (h *SearchAreaHandler) PostSearchArea(c *gin.Context) {
	var req model.SearchAreaRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	// バリデーション
	if err := validateSearchAreaRequest(&req); err != nil {
		respondError(c, err, "")
		return
	}

	result, err := h.searchAreaUseCase.CreateSearchArea(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create search area")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetSearchArea は作成済みの検索範囲を取得するエンドポイント
// GET /search-areas/:id
func (h *SearchAreaHandler) GetSearchArea(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, &ValidationError{Field: "id", Message: "検索範囲IDが指定されていません"}, "")
		return
	}

	result, err := h.searchAreaUseCase.GetSearchArea(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get search area")
		return
	}

	c.JSON(http.StatusOK, result)
}

// validateSearchAreaRequest はリクエストの詳細バリデーションを行う
func validateSearchAreaRequest(req *model.SearchAreaRequest) error {
	if *req.Lat < -90 || *req.Lat > 90 {
		return &ValidationError{Field: "lat", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if *req.Lon < -180 || *req.Lon >= 180 {
		return &ValidationError{Field: "lon", Message: "経度は-180以上180未満で指定してください"}
	}
	if req.RadiusKm < 0 || req.RadiusKm > model.MaxRadiusKm {
		return &ValidationError{Field: "radius_km", Message: fmt.Sprintf("半径は0より大きく%.0fkm以下で指定してください", model.MaxRadiusKm)}
	}
	return nil
}
