package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/repository"
	"GeoGrid-App/internal/infrastructure/database"
)

// maxPointsPerQuery 1回の検索で返す地点数の上限
const maxPointsPerQuery = 500

type PostgresPointsRepository struct {
	client  *database.PostgreSQLClient
	indexer *gridindex.Indexer
}

func NewPostgresPointsRepository(client *database.PostgreSQLClient, indexer *gridindex.Indexer) repository.PointsRepository {
	return &PostgresPointsRepository{
		client:  client,
		indexer: indexer,
	}
}

// pointResult PostGIS関数の結果を受け取るための構造体
type pointResult struct {
	ID         string
	Location   string
	Category   sql.NullString
	GridCellID int64
}

// toPointRecord pointResultをmodel.PointRecordに変換
func (pr *pointResult) toPointRecord() (*model.PointRecord, error) {
	var location model.Geometry
	if err := json.Unmarshal([]byte(pr.Location), &location); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	point := &model.PointRecord{
		ID:         pr.ID,
		Location:   &location,
		GridCellID: pr.GridCellID,
	}
	if pr.Category.Valid {
		point.Category = pr.Category.String
	}
	return point, nil
}

// GetByCellIDs 指定したグリッドセルに属する地点を取得
func (r *PostgresPointsRepository) GetByCellIDs(ctx context.Context, cellIDs []int64) ([]model.PointRecord, error) {
	if len(cellIDs) == 0 {
		return []model.PointRecord{}, nil
	}

	query := `
		SELECT p.id, ST_AsGeoJSON(p.location)::jsonb AS location, p.category, p.grid_cell_id
		FROM points p
		WHERE p.grid_cell_id = ANY($1)
		ORDER BY p.grid_cell_id
		LIMIT $2
	`

	rows, err := r.client.DB.QueryContext(ctx, query, pq.Array(cellIDs), maxPointsPerQuery)
	if err != nil {
		return nil, fmt.Errorf("グリッドセル %d 件の地点データ取得失敗: %w", len(cellIDs), err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// GetInRadius 中心から半径(m)以内の地点を距離順に取得
func (r *PostgresPointsRepository) GetInRadius(ctx context.Context, center model.LatLng, radiusMeters int) ([]model.PointRecord, error) {
	query := `
		SELECT p.id, ST_AsGeoJSON(p.location)::jsonb AS location, p.category, p.grid_cell_id
		FROM points p
		WHERE ST_DWithin(
			ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
			p.location::geography,
			$3
		)
		ORDER BY ST_Distance(
			ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
			p.location::geography
		)
		LIMIT $4
	`

	rows, err := r.client.DB.QueryContext(ctx, query, center.Lat, center.Lng, radiusMeters, maxPointsPerQuery)
	if err != nil {
		return nil, fmt.Errorf("周辺地点検索失敗: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// Create 地点を保存する。grid_cell_id は位置から計算する
func (r *PostgresPointsRepository) Create(ctx context.Context, point *model.PointRecord) error {
	pt, ok := point.Point()
	if !ok {
		return fmt.Errorf("地点の位置情報が不正です")
	}
	if err := r.indexer.Validate(pt); err != nil {
		return fmt.Errorf("地点の位置検証失敗: %w", err)
	}

	if point.ID == "" {
		point.ID = uuid.New().String()
	}
	point.GridCellID = int64(r.indexer.EncodeCell(pt))

	location, err := json.Marshal(LocationToGeoPoint(pt))
	if err != nil {
		return fmt.Errorf("locationのJSONマーシャル失敗: %w", err)
	}

	query := `
		INSERT INTO points (id, location, category, grid_cell_id)
		VALUES ($1, ST_SetSRID(ST_GeomFromGeoJSON($2), 4326), $3, $4)
	`
	if _, err := r.client.DB.ExecContext(ctx, query, point.ID, string(location), point.Category, point.GridCellID); err != nil {
		return fmt.Errorf("地点データの作成失敗: %w", err)
	}
	return nil
}

func scanPoints(rows *sql.Rows) ([]model.PointRecord, error) {
	points := []model.PointRecord{}
	for rows.Next() {
		var result pointResult
		if err := rows.Scan(&result.ID, &result.Location, &result.Category, &result.GridCellID); err != nil {
			return nil, fmt.Errorf("地点データスキャンエラー: %w", err)
		}

		point, err := result.toPointRecord()
		if err != nil {
			return nil, err
		}
		points = append(points, *point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行イテレーション中のエラー: %w", err)
	}
	return points, nil
}
