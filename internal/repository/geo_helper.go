package repository

import (
	"github.com/paulmach/orb"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LocationToGeoPoint orb.Point を PostGIS POINT 形式に変換
func LocationToGeoPoint(point orb.Point) *GeoPoint {
	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}
