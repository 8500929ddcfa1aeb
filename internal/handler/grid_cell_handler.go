package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"GeoGrid-App/internal/usecase"
)

// GridCellHandler グリッドセルに関するHTTPハンドラー
type GridCellHandler struct {
	gridCellUseCase usecase.GridCellUseCase
}

// NewGridCellHandler GridCellHandlerの新しいインスタンスを作成
func NewGridCellHandler(gridCellUseCase usecase.GridCellUseCase) *GridCellHandler {
	return &GridCellHandler{
		gridCellUseCase: gridCellUseCase,
	}
}

// EncodeCell GET /cells/encode?lon=&lat= - 座標を含むセルを取得
func (h *GridCellHandler) EncodeCell(c *gin.Context) {
	lon, err := parseFloatQuery(c, "lon")
	if err != nil {
		respondError(c, err, "")
		return
	}
	lat, err := parseFloatQuery(c, "lat")
	if err != nil {
		respondError(c, err, "")
		return
	}

	cell, err := h.gridCellUseCase.EncodeCell(lon, lat)
	if err != nil {
		respondError(c, err, "Failed to encode cell")
		return
	}

	c.JSON(http.StatusOK, cell)
}

// GetCell GET /cells/:id - セルIDの矩形を取得
func (h *GridCellHandler) GetCell(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &ValidationError{Field: "id", Message: "セルIDは整数で指定してください"}, "")
		return
	}

	cell, err := h.gridCellUseCase.DecodeCell(id)
	if err != nil {
		respondError(c, err, "Failed to decode cell")
		return
	}

	c.JSON(http.StatusOK, cell)
}

// GetCoveringCells GET /cells?bbox=min_lng,min_lat,max_lng,max_lat - 境界ボックスを覆うセル一覧を取得
func (h *GridCellHandler) GetCoveringCells(c *gin.Context) {
	bbox := c.Query("bbox")
	if bbox == "" {
		respondError(c, &ValidationError{Field: "bbox", Message: "bbox parameter is required (format: min_lng,min_lat,max_lng,max_lat)"}, "")
		return
	}

	coords := strings.Split(bbox, ",")
	if len(coords) != 4 {
		respondError(c, &ValidationError{Field: "bbox", Message: "bbox must contain 4 coordinates: min_lng,min_lat,max_lng,max_lat"}, "")
		return
	}

	names := []string{"min_lng", "min_lat", "max_lng", "max_lat"}
	values := make([]float64, 4)
	for i, s := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			respondError(c, &ValidationError{Field: names[i], Message: "Invalid " + names[i] + " value"}, "")
			return
		}
		values[i] = v
	}

	resp, err := h.gridCellUseCase.CoveringCells(values[0], values[1], values[2], values[3])
	if err != nil {
		respondError(c, err, "Failed to enumerate cells")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseFloatQuery(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, &ValidationError{Field: name, Message: name + " parameter is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: "Invalid " + name + " value"}
	}
	return v, nil
}
