package model

// 検索範囲のデフォルト値
const (
	DefaultRadiusKm    = 2.0  // 検索円の半径
	DefaultCircleSteps = 64   // 検索円の頂点数
	MaxRadiusKm        = 50.0 // これを超える半径はセル数が膨大になるため拒否する
)

// LayerConstants 地図に渡すGeoJSONソース名
const (
	LayerRadius = "radius"
	LayerBoxes  = "boxes"
	LayerPoints = "points"
)

// PropertyConstants GeoJSON Feature のプロパティ名
const (
	PropertyCellID   = "cell_id"
	PropertyPointID  = "id"
	PropertyCategory = "category"
	PropertyIsCenter = "is_center"
)
