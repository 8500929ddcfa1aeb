package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/helper"
	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/repository"
	"GeoGrid-App/internal/domain/service"
)

type SearchAreaUseCase interface {
	// CreateSearchArea は中心点から検索円・覆うセル・地点のレイヤーを作成する
	CreateSearchArea(ctx context.Context, req *model.SearchAreaRequest) (*model.SearchAreaResult, error)

	// GetSearchArea は保存済みの検索範囲を取得する
	GetSearchArea(ctx context.Context, id string) (*model.SearchAreaResult, error)
}

// SearchAreaOptions 検索範囲作成時の設定
type SearchAreaOptions struct {
	DefaultRadiusKm float64
	CacheTTLHours   int
}

// searchAreaUseCaseImpl はSearchAreaUseCaseの実装
// pointLookup / pointsRepo / cellsRepo / cacheRepo はnilなら使用しない
type searchAreaUseCaseImpl struct {
	searchService *service.SearchAreaService
	pointLookup   repository.PointLookup
	pointsRepo    repository.PointsRepository
	cellsRepo     repository.GridCellsRepository
	cacheRepo     repository.SearchAreaCacheRepository
	opts          SearchAreaOptions
	now           func() time.Time
}

// NewSearchAreaUseCase は新しいSearchAreaUseCaseインスタンスを作成
func NewSearchAreaUseCase(
	searchService *service.SearchAreaService,
	pointLookup repository.PointLookup,
	pointsRepo repository.PointsRepository,
	cellsRepo repository.GridCellsRepository,
	cacheRepo repository.SearchAreaCacheRepository,
	opts SearchAreaOptions,
) SearchAreaUseCase {
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = model.DefaultRadiusKm
	}
	if opts.CacheTTLHours <= 0 {
		opts.CacheTTLHours = 24
	}
	return &searchAreaUseCaseImpl{
		searchService: searchService,
		pointLookup:   pointLookup,
		pointsRepo:    pointsRepo,
		cellsRepo:     cellsRepo,
		cacheRepo:     cacheRepo,
		opts:          opts,
		now:           time.Now,
	}
}

// CreateSearchArea は中心点から検索円・覆うセル・地点のレイヤーを作成する
func (u *searchAreaUseCaseImpl) CreateSearchArea(ctx context.Context, req *model.SearchAreaRequest) (*model.SearchAreaResult, error) {
	if req.Lat == nil || req.Lon == nil {
		return nil, fmt.Errorf("中心点の緯度経度は必須です")
	}
	center := orb.Point{*req.Lon, *req.Lat}
	radiusKm := req.RadiusKm
	if radiusKm == 0 {
		radiusKm = u.opts.DefaultRadiusKm
	}

	log.Printf("🚀 検索範囲作成開始 (中心: %.6f, %.6f, 半径: %.2fkm)", center.Lat(), center.Lon(), radiusKm)

	// Step 1: 検索円と覆うセルを計算
	plan, err := u.searchService.Plan(center, radiusKm)
	if err != nil {
		return nil, err
	}
	resolution := u.searchService.Indexer().Resolution()
	log.Printf("✅ %d件のセルが検索円を覆っています", len(plan.Cells))

	// Step 2: 地点の取得とセルの保存を並行実行
	var (
		wg        sync.WaitGroup
		points    []model.PointRecord
		pointsErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		points, pointsErr = u.fetchPoints(ctx, plan)
	}()

	if u.cellsRepo != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := u.saveNewCells(ctx, resolution, plan.Cells); err != nil {
				log.Printf("⚠️ グリッドセルの保存に失敗: %v", err)
			}
		}()
	}

	wg.Wait()
	if pointsErr != nil {
		return nil, fmt.Errorf("地点の取得に失敗: %w", pointsErr)
	}
	log.Printf("✅ %d件の地点を取得", len(points))

	// Step 3: レイヤーを組み立てる
	result := &model.SearchAreaResult{
		ID:         fmt.Sprintf("search_%s", uuid.New().String()),
		Center:     model.Location{Latitude: center.Lat(), Longitude: center.Lon()},
		RadiusKm:   radiusKm,
		Resolution: resolution,
		Centroid:   model.Location{Latitude: plan.Centroid.Lat(), Longitude: plan.Centroid.Lon()},
		CellIDs:    plan.CellIDs(),
		Radius:     service.RadiusLayer(plan.Circle),
		Boxes:      service.BoxesLayer(plan.Cells),
		Points:     service.PointsLayer(center, points),
		CreatedAt:  u.now(),
	}

	// Step 4: Firestoreに保存
	if u.cacheRepo != nil {
		if err := u.cacheRepo.Save(ctx, result, u.opts.CacheTTLHours); err != nil {
			log.Printf("⚠️ 検索範囲のキャッシュ保存に失敗: %v", err)
		}
	}

	log.Printf("🎉 検索範囲作成完了 (ID: %s)", result.ID)
	return result, nil
}

// fetchPoints は外部サービス、なければDBから検索円内の地点を取得する
func (u *searchAreaUseCaseImpl) fetchPoints(ctx context.Context, plan *service.SearchAreaPlan) ([]model.PointRecord, error) {
	center := model.LatLngFromPoint(plan.Center)

	if u.pointLookup != nil {
		return u.pointLookup.FindInRadius(ctx, center, plan.RadiusKm)
	}

	if u.pointsRepo != nil {
		// セル単位で取得してから円の外側を除外する
		candidates, err := u.pointsRepo.GetByCellIDs(ctx, plan.CellIDs())
		if err == nil {
			return helper.FilterWithinRadius(candidates, plan.Center, plan.RadiusKm), nil
		}

		log.Printf("⚠️ セル単位の地点取得に失敗、距離検索に切り替えます: %v", err)
		radiusMeters := int(math.Ceil(plan.RadiusKm * 1000))
		return u.pointsRepo.GetInRadius(ctx, center, radiusMeters)
	}

	return []model.PointRecord{}, nil
}

// saveNewCells はまだ保存されていないセルだけを保存する
// 既存セルの確認に失敗した場合は全件をupsertする
func (u *searchAreaUseCaseImpl) saveNewCells(ctx context.Context, resolution int, cells []gridindex.Cell) error {
	ids := make([]int64, len(cells))
	for i, c := range cells {
		ids[i] = int64(c.ID)
	}

	stored, err := u.cellsRepo.GetByIDs(ctx, resolution, ids)
	if err != nil {
		log.Printf("⚠️ 保存済みセルの確認に失敗、全件を保存します: %v", err)
		return u.cellsRepo.SaveCells(ctx, service.ToGridCells(resolution, cells))
	}

	exists := make(map[int64]bool, len(stored))
	for _, c := range stored {
		exists[c.ID] = true
	}
	missing := make([]gridindex.Cell, 0, len(cells))
	for _, c := range cells {
		if !exists[int64(c.ID)] {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	log.Printf("💾 %d件の新しいセルを保存 (保存済み: %d件)", len(missing), len(cells)-len(missing))
	return u.cellsRepo.SaveCells(ctx, service.ToGridCells(resolution, missing))
}

// GetSearchArea は保存済みの検索範囲を取得する
func (u *searchAreaUseCaseImpl) GetSearchArea(ctx context.Context, id string) (*model.SearchAreaResult, error) {
	log.Printf("📖 検索範囲取得開始 (ID: %s)", id)

	if u.cacheRepo == nil {
		return nil, fmt.Errorf("%w: キャッシュが設定されていません", repository.ErrSearchAreaNotFound)
	}

	result, err := u.cacheRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("検索範囲の取得に失敗: %w", err)
	}

	log.Printf("✅ 検索範囲取得完了 (ID: %s)", id)
	return result, nil
}
