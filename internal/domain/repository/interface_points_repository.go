package repository

import (
	"context"

	"GeoGrid-App/internal/domain/model"
)

// PointsRepository 地点データの保存先
type PointsRepository interface {
	GetByCellIDs(ctx context.Context, cellIDs []int64) ([]model.PointRecord, error)
	GetInRadius(ctx context.Context, center model.LatLng, radiusMeters int) ([]model.PointRecord, error)
	Create(ctx context.Context, point *model.PointRecord) error
}

// PointLookup 中心点と半径から地点を返す外部サービス
type PointLookup interface {
	FindInRadius(ctx context.Context, center model.LatLng, radiusKm float64) ([]model.PointRecord, error)
}
