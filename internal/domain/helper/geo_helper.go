package helper

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"GeoGrid-App/internal/domain/model"
)

// MeanEarthRadius 地図側の距離計算で使う地球の平均半径(m)
// orb/geo は赤道半径 orb.EarthRadius で計算するため、距離はこの比で換算する
const MeanEarthRadius = 6371008.8

// toOrbMeters 平均半径での距離(km)を orb/geo の球面上の距離(m)に換算
func toOrbMeters(km float64) float64 {
	return km * 1000 * orb.EarthRadius / MeanEarthRadius
}

// DistanceMeters 2点間の大円距離(m)。平均半径で計算する
func DistanceMeters(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) * MeanEarthRadius / orb.EarthRadius
}

// CirclePolygon 中心点と半径(km)から円を近似したポリゴンを作成する
// 頂点は真北から反時計回りに steps 個並び、リングは閉じている
func CirclePolygon(center orb.Point, radiusKm float64, steps int) orb.Polygon {
	if steps < 3 {
		steps = model.DefaultCircleSteps
	}

	radiusMeters := toOrbMeters(radiusKm)
	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		bearing := float64(i) * -360 / float64(steps)
		ring = append(ring, geo.PointAtBearingAndDistance(center, bearing, radiusMeters))
	}
	ring = append(ring, ring[0])

	return orb.Polygon{ring}
}

// RegionOf ポリゴンを囲む境界ボックス
func RegionOf(polygon orb.Polygon) orb.Bound {
	return polygon.Bound()
}

// Centroid 外周リングの頂点の平均。閉じるための最後の頂点は数えない
func Centroid(polygon orb.Polygon) orb.Point {
	if len(polygon) == 0 || len(polygon[0]) == 0 {
		return orb.Point{}
	}

	ring := polygon[0]
	if len(ring) > 1 && ring.Closed() {
		ring = ring[:len(ring)-1]
	}

	var lon, lat float64
	for _, p := range ring {
		lon += p.Lon()
		lat += p.Lat()
	}
	n := float64(len(ring))
	return orb.Point{lon / n, lat / n}
}

// BoundToGeoPolygon 境界ボックスを GeoJSON Polygon 形式に変換する
func BoundToGeoPolygon(bound orb.Bound) *model.GeoPolygon {
	minLng, minLat := bound.Min.Lon(), bound.Min.Lat()
	maxLng, maxLat := bound.Max.Lon(), bound.Max.Lat()

	return &model.GeoPolygon{
		Type: "Polygon",
		Coordinates: [][][]float64{
			{
				{minLng, minLat}, // 左下
				{maxLng, minLat}, // 右下
				{maxLng, maxLat}, // 右上
				{minLng, maxLat}, // 左上
				{minLng, minLat}, // 閉じる
			},
		},
	}
}

// BoundToCellBounds orb.Bound を CellBounds に変換する
func BoundToCellBounds(bound orb.Bound) model.CellBounds {
	return model.CellBounds{
		MinLng: bound.Min.Lon(),
		MinLat: bound.Min.Lat(),
		MaxLng: bound.Max.Lon(),
		MaxLat: bound.Max.Lat(),
	}
}

// FilterWithinRadius 中心から半径(km)以内の地点のみを抽出する
// 位置情報が不正な地点は除外する
func FilterWithinRadius(points []model.PointRecord, center orb.Point, radiusKm float64) []model.PointRecord {
	radiusMeters := radiusKm * 1000
	filtered := make([]model.PointRecord, 0, len(points))
	for _, p := range points {
		pt, ok := p.Point()
		if !ok {
			continue
		}
		if DistanceMeters(center, pt) <= radiusMeters {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
