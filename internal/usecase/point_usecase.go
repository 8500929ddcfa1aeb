package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/repository"
)

// ErrPointStoreUnavailable 地点の保存先が設定されていない
var ErrPointStoreUnavailable = errors.New("地点の保存先が設定されていません")

type PointUseCase interface {
	// RegisterPoint は地点を所属セルIDとともに保存する
	RegisterPoint(ctx context.Context, req *model.RegisterPointRequest) (*model.PointRecord, error)
}

type pointUseCaseImpl struct {
	indexer    *gridindex.Indexer
	pointsRepo repository.PointsRepository
}

// NewPointUseCase は新しいPointUseCaseインスタンスを作成
// pointsRepo がnilの場合、登録は ErrPointStoreUnavailable を返す
func NewPointUseCase(indexer *gridindex.Indexer, pointsRepo repository.PointsRepository) PointUseCase {
	return &pointUseCaseImpl{
		indexer:    indexer,
		pointsRepo: pointsRepo,
	}
}

func (u *pointUseCaseImpl) RegisterPoint(ctx context.Context, req *model.RegisterPointRequest) (*model.PointRecord, error) {
	if u.pointsRepo == nil {
		return nil, ErrPointStoreUnavailable
	}
	if req.Location == nil {
		return nil, fmt.Errorf("地点の位置情報は必須です")
	}
	if err := u.indexer.Validate(req.Location.ToPoint()); err != nil {
		return nil, err
	}

	point := &model.PointRecord{
		Location: req.Location.ToGeometry(),
		Category: strings.TrimSpace(req.Category),
	}
	if err := u.pointsRepo.Create(ctx, point); err != nil {
		return nil, fmt.Errorf("地点の登録に失敗: %w", err)
	}

	log.Printf("✅ 地点を登録しました (ID: %s, セル: %d)", point.ID, point.GridCellID)
	return point, nil
}
