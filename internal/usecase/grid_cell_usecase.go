package usecase

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/helper"
	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/service"
)

// maxCoveringCells 1回の列挙で返すセル数の上限
const maxCoveringCells = 10000

// ErrTooManyCells 列挙するセル数が上限を超えた
var ErrTooManyCells = errors.New("セル数が多すぎます")

type GridCellUseCase interface {
	// EncodeCell は座標を含むセルを返す
	EncodeCell(lon, lat float64) (*model.CellResponse, error)

	// DecodeCell はセルIDの矩形を返す
	DecodeCell(id int64) (*model.CellResponse, error)

	// CoveringCells は境界ボックスを覆うセル一覧を返す
	CoveringCells(minLng, minLat, maxLng, maxLat float64) (*model.CoveringCellsResponse, error)
}

type gridCellUseCaseImpl struct {
	indexer *gridindex.Indexer
}

// NewGridCellUseCase は新しいGridCellUseCaseインスタンスを作成
func NewGridCellUseCase(indexer *gridindex.Indexer) GridCellUseCase {
	return &gridCellUseCaseImpl{indexer: indexer}
}

func (u *gridCellUseCaseImpl) EncodeCell(lon, lat float64) (*model.CellResponse, error) {
	p := orb.Point{lon, lat}
	if err := u.indexer.Validate(p); err != nil {
		return nil, err
	}
	return u.cellResponse(u.indexer.Cell(u.indexer.EncodeCell(p))), nil
}

func (u *gridCellUseCaseImpl) DecodeCell(id int64) (*model.CellResponse, error) {
	res := int64(u.indexer.Resolution())
	if id < 0 || id >= res*res {
		return nil, fmt.Errorf("%w: セルID %d", gridindex.ErrOutOfDomain, id)
	}
	return u.cellResponse(u.indexer.Cell(gridindex.CellID(id))), nil
}

func (u *gridCellUseCaseImpl) CoveringCells(minLng, minLat, maxLng, maxLat float64) (*model.CoveringCellsResponse, error) {
	region := orb.Bound{Min: orb.Point{minLng, minLat}, Max: orb.Point{maxLng, maxLat}}
	if err := u.indexer.ValidateRegion(region); err != nil {
		return nil, err
	}

	// 日付変更線をまたぐ領域などは0件になる
	if count := u.indexer.CoveringCellCount(region); count > maxCoveringCells {
		return nil, fmt.Errorf("%w（%d件、上限%d件）。範囲を狭めてください", ErrTooManyCells, count, maxCoveringCells)
	}

	cells := u.indexer.EnumerateCoveringCells(region)
	ids := gridindex.CellIDs(cells)
	cellIDs := make([]int64, len(ids))
	for i, id := range ids {
		cellIDs[i] = int64(id)
	}

	return &model.CoveringCellsResponse{
		Resolution: u.indexer.Resolution(),
		CellIDs:    cellIDs,
		Boxes:      service.BoxesLayer(cells),
	}, nil
}

func (u *gridCellUseCaseImpl) cellResponse(c gridindex.Cell) *model.CellResponse {
	return &model.CellResponse{
		CellID:     int64(c.ID),
		X:          c.X,
		Y:          c.Y,
		Resolution: u.indexer.Resolution(),
		Bounds:     helper.BoundToCellBounds(c.Bound),
	}
}
