package repository

import (
	"context"
	"errors"

	"GeoGrid-App/internal/domain/model"
)

// ErrSearchAreaNotFound 検索範囲が存在しないか有効期限切れ
var ErrSearchAreaNotFound = errors.New("検索範囲が見つかりません")

// SearchAreaCacheRepository 描画済みの検索範囲を一時保存する
type SearchAreaCacheRepository interface {
	Save(ctx context.Context, result *model.SearchAreaResult, ttlHours int) error
	Get(ctx context.Context, id string) (*model.SearchAreaResult, error)
}
