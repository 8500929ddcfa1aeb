package repository

import (
	"context"

	"GeoGrid-App/internal/domain/model"
)

// GridCellsRepository 計算済みグリッドセルの保存先
type GridCellsRepository interface {
	SaveCells(ctx context.Context, cells []model.GridCell) error
	GetByIDs(ctx context.Context, resolution int, ids []int64) ([]model.GridCell, error)
}
