package model

import "github.com/paulmach/orb"

// LatLng 緯度経度を表す基本的な型
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLngFromPoint orb.Point から LatLng を作成
func LatLngFromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// Geometry GeoJSON Point に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// NewPointGeometry 経度・緯度から Point ジオメトリを作成
func NewPointGeometry(lng, lat float64) *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

// PointRecord 地図にマーカーとして表示する地点
type PointRecord struct {
	ID         string    `json:"id,omitempty" db:"id"`
	Location   *Geometry `json:"location" db:"location"`             // 位置情報（GeoJSON Point）
	Category   string    `json:"category,omitempty" db:"category"`   // 種別
	GridCellID int64     `json:"grid_cell_id" db:"grid_cell_id"`     // 所属するグリッドセルID
}

// Point 位置情報を orb.Point で返す。位置が不正なら false
func (p *PointRecord) Point() (orb.Point, bool) {
	if p == nil || p.Location == nil || len(p.Location.Coordinates) < 2 {
		return orb.Point{}, false
	}
	return orb.Point{p.Location.Coordinates[0], p.Location.Coordinates[1]}, true
}

// Location 緯度経度（リクエスト用）
type Location struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

// ToPoint Location を orb.Point に変換
func (l *Location) ToPoint() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// ToGeometry Location を GeoJSON Point に変換
func (l *Location) ToGeometry() *Geometry {
	return NewPointGeometry(l.Longitude, l.Latitude)
}

// RegisterPointRequest 地点登録リクエスト
type RegisterPointRequest struct {
	Location *Location `json:"location" binding:"required"`
	Category string    `json:"category"`
}
