package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"GeoGrid-App/internal/config"
	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/repository"
	"GeoGrid-App/internal/domain/service"
	"GeoGrid-App/internal/handler"
	"GeoGrid-App/internal/infrastructure/database"
	"GeoGrid-App/internal/infrastructure/firestore"
	"GeoGrid-App/internal/infrastructure/pointlookup"
	repoImpl "GeoGrid-App/internal/repository"
	"GeoGrid-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込み失敗: %v", err)
	}

	indexer, err := gridindex.NewIndexer(cfg.GridResolution)
	if err != nil {
		log.Fatalf("グリッドインデクサ初期化失敗: %v", err)
	}
	log.Printf("🗺️ Grid resolution: %d cells per axis", indexer.Resolution())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 地点の取得元: 外部サービスがあれば優先し、なければDBを使う
	var pointLookup repository.PointLookup
	if cfg.HasPointLookup() {
		pointLookup = pointlookup.NewClient(cfg.PointLookupURL, cfg.PointLookupAPIKey)
		log.Printf("✅ Point lookup service: %s", cfg.PointLookupURL)
	}

	var pointsRepo repository.PointsRepository
	if cfg.HasPostgres() {
		pgClient, err := database.NewPostgreSQLClient(ctx, cfg.SupabaseURL, cfg.SupabaseDBPassword)
		if err != nil {
			log.Printf("⚠️ PostgreSQL unavailable, points fallback disabled: %v", err)
		} else {
			defer pgClient.Close()
			pointsRepo = repoImpl.NewPostgresPointsRepository(pgClient, indexer)
		}
	}

	var cellsRepo repository.GridCellsRepository
	if cfg.HasSupabase() {
		supabaseClient, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
		}
		if err := supabaseClient.HealthCheck(); err != nil {
			log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
		}
		cellsRepo = repoImpl.NewSupabaseGridCellsRepository(supabaseClient)
	}

	var cacheRepo repository.SearchAreaCacheRepository
	if cfg.HasFirestore() {
		fsClient, err := firestore.NewFirestoreClient(context.Background(), cfg.FirestoreProjectID)
		if err != nil {
			log.Printf("⚠️ Firestore unavailable, search area cache disabled: %v", err)
		} else {
			defer fsClient.Close()
			cacheRepo = repoImpl.NewFirestoreSearchAreaRepository(fsClient.GetClient())
		}
	}

	searchService := service.NewSearchAreaService(indexer, cfg.CircleSteps)
	searchAreaUseCase := usecase.NewSearchAreaUseCase(searchService, pointLookup, pointsRepo, cellsRepo, cacheRepo, usecase.SearchAreaOptions{
		DefaultRadiusKm: cfg.RadiusKm,
		CacheTTLHours:   cfg.SearchCacheTTLHours,
	})
	gridCellUseCase := usecase.NewGridCellUseCase(indexer)
	pointUseCase := usecase.NewPointUseCase(indexer, pointsRepo)

	router := handler.NewRouter(
		handler.NewSearchAreaHandler(searchAreaUseCase),
		handler.NewGridCellHandler(gridCellUseCase),
		handler.NewPointHandler(pointUseCase),
	)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("🚀 GeoGrid-App server starting on %s...", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("サーバー起動失敗: %v", err)
	}
}
