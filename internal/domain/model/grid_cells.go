package model

import "github.com/paulmach/orb/geojson"

// GridCell 保存用のグリッドセル
type GridCell struct {
	ID         int64       `json:"id" db:"id"`                 // セルID（x*resolution+y）
	Resolution int         `json:"resolution" db:"resolution"` // 生成時の解像度
	X          int         `json:"x" db:"x"`                   // 経度方向のセル番号
	Y          int         `json:"y" db:"y"`                   // 緯度方向のセル番号
	Geometry   *GeoPolygon `json:"geometry" db:"geometry"`     // セル矩形（GeoJSON Polygon）
}

// GeoPolygon GeoJSON Polygon のJSON表現
type GeoPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// CellBounds セル矩形（経度・緯度の最小/最大）
type CellBounds struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// CellResponse 単一セルのAPIレスポンス
type CellResponse struct {
	CellID     int64      `json:"cell_id"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Resolution int        `json:"resolution"`
	Bounds     CellBounds `json:"bounds"`
}

// CoveringCellsResponse 境界ボックスを覆うセル一覧のAPIレスポンス
type CoveringCellsResponse struct {
	Resolution int                        `json:"resolution"`
	CellIDs    []int64                    `json:"cell_ids"`
	Boxes      *geojson.FeatureCollection `json:"boxes"`
}
