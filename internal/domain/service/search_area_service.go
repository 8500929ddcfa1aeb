package service

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/helper"
	"GeoGrid-App/internal/domain/model"
)

// SearchAreaPlan 1回の検索で計算される検索円とそれを覆うセル
type SearchAreaPlan struct {
	Center   orb.Point
	RadiusKm float64
	Circle   orb.Polygon
	Region   orb.Bound
	Centroid orb.Point
	Cells    []gridindex.Cell
}

// CellIDs 覆うセルのID列（行優先順）
func (p *SearchAreaPlan) CellIDs() []int64 {
	ids := make([]int64, len(p.Cells))
	for i, c := range p.Cells {
		ids[i] = int64(c.ID)
	}
	return ids
}

// SearchAreaService 検索円の作成とセル列挙を行う
type SearchAreaService struct {
	indexer     *gridindex.Indexer
	circleSteps int
}

// NewSearchAreaService 新しいSearchAreaServiceを作成
func NewSearchAreaService(indexer *gridindex.Indexer, circleSteps int) *SearchAreaService {
	if circleSteps < 3 {
		circleSteps = model.DefaultCircleSteps
	}
	return &SearchAreaService{
		indexer:     indexer,
		circleSteps: circleSteps,
	}
}

// Indexer 使用中のグリッドインデクサ
func (s *SearchAreaService) Indexer() *gridindex.Indexer {
	return s.indexer
}

// Plan 中心点と半径から検索円・境界ボックス・覆うセルを計算する
func (s *SearchAreaService) Plan(center orb.Point, radiusKm float64) (*SearchAreaPlan, error) {
	if err := s.indexer.Validate(center); err != nil {
		return nil, err
	}
	if radiusKm <= 0 || radiusKm > model.MaxRadiusKm {
		return nil, fmt.Errorf("半径は0より大きく%.0fkm以下で指定してください: %f", model.MaxRadiusKm, radiusKm)
	}

	circle := helper.CirclePolygon(center, radiusKm, s.circleSteps)
	region := helper.RegionOf(circle)

	return &SearchAreaPlan{
		Center:   center,
		RadiusKm: radiusKm,
		Circle:   circle,
		Region:   region,
		Centroid: helper.Centroid(circle),
		Cells:    s.indexer.EnumerateCoveringCells(region),
	}, nil
}

// RadiusLayer 検索円のレイヤー
func RadiusLayer(circle orb.Polygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(circle))
	return fc
}

// BoxesLayer セルごとに1つのポリゴンを持つレイヤー
func BoxesLayer(cells []gridindex.Cell) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range cells {
		f := geojson.NewFeature(c.Polygon())
		f.Properties[model.PropertyCellID] = int64(c.ID)
		fc.Append(f)
	}
	return fc
}

// PointsLayer 地点マーカーのレイヤー。先頭は検索の中心点
func PointsLayer(center orb.Point, points []model.PointRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	c := geojson.NewFeature(center)
	c.Properties[model.PropertyIsCenter] = true
	fc.Append(c)

	for _, p := range points {
		pt, ok := p.Point()
		if !ok {
			continue
		}
		f := geojson.NewFeature(pt)
		if p.ID != "" {
			f.Properties[model.PropertyPointID] = p.ID
		}
		if p.Category != "" {
			f.Properties[model.PropertyCategory] = p.Category
		}
		fc.Append(f)
	}
	return fc
}

// ToGridCells 保存用のGridCellに変換する
func ToGridCells(resolution int, cells []gridindex.Cell) []model.GridCell {
	result := make([]model.GridCell, len(cells))
	for i, c := range cells {
		result[i] = model.GridCell{
			ID:         int64(c.ID),
			Resolution: resolution,
			X:          c.X,
			Y:          c.Y,
			Geometry:   helper.BoundToGeoPolygon(c.Bound),
		}
	}
	return result
}
