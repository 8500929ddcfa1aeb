package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/repository"
	"GeoGrid-App/internal/infrastructure/database"
)

const gridCellsTable = "grid_cells"

// gridCellsBatchSize 1回のupsertで送るセル数
const gridCellsBatchSize = 500

type SupabaseGridCellsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseGridCellsRepository(client *database.SupabaseClient) repository.GridCellsRepository {
	return &SupabaseGridCellsRepository{
		client: client,
	}
}

// SaveCells セルを (id, resolution) でupsertする
func (r *SupabaseGridCellsRepository) SaveCells(ctx context.Context, cells []model.GridCell) error {
	for start := 0; start < len(cells); start += gridCellsBatchSize {
		end := start + gridCellsBatchSize
		if end > len(cells) {
			end = len(cells)
		}

		data, err := json.Marshal(cells[start:end])
		if err != nil {
			return fmt.Errorf("グリッドセルデータのJSONマーシャル失敗: %w", err)
		}

		_, _, err = r.client.GetClient().From(gridCellsTable).Insert(string(data), true, "id,resolution", "minimal", "").Execute()
		if err != nil {
			return fmt.Errorf("グリッドセルデータの保存失敗: %w", err)
		}
	}
	return nil
}

// GetByIDs 指定した解像度・IDのセルを取得
func (r *SupabaseGridCellsRepository) GetByIDs(ctx context.Context, resolution int, ids []int64) ([]model.GridCell, error) {
	if len(ids) == 0 {
		return []model.GridCell{}, nil
	}

	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = strconv.FormatInt(id, 10)
	}

	data, _, err := r.client.GetClient().From(gridCellsTable).
		Select("*", "", false).
		Eq("resolution", strconv.Itoa(resolution)).
		In("id", values).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("グリッドセルデータの取得失敗: %w", err)
	}

	var gridCells []model.GridCell
	if err := json.Unmarshal(data, &gridCells); err != nil {
		return nil, fmt.Errorf("グリッドセルデータのJSONアンマーシャル失敗: %w", err)
	}
	return gridCells, nil
}
