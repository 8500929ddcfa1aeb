package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/repository"
)

const searchAreasCollection = "searchAreas"

// FirestoreSearchAreaRepository Firestoreを使用した検索範囲キャッシュリポジトリ
type FirestoreSearchAreaRepository struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreSearchAreaRepository 新しいFirestoreSearchAreaRepositoryインスタンスを作成
func NewFirestoreSearchAreaRepository(client *firestore.Client) repository.SearchAreaCacheRepository {
	return &FirestoreSearchAreaRepository{
		client: client,
		now:    time.Now,
	}
}

// Save 検索範囲をresult.IDのドキュメントとして保存する
func (r *FirestoreSearchAreaRepository) Save(ctx context.Context, result *model.SearchAreaResult, ttlHours int) error {
	data, err := result.ToFirestoreSearchArea(ttlHours)
	if err != nil {
		return fmt.Errorf("検索範囲の変換に失敗しました: %w", err)
	}

	if _, err := r.client.Collection(searchAreasCollection).Doc(result.ID).Set(ctx, data); err != nil {
		log.Printf("❌ Failed to save search area %s: %v", result.ID, err)
		return fmt.Errorf("検索範囲の保存に失敗しました: %w", err)
	}

	log.Printf("✅ Search area saved: %s (expires in %d hours)", result.ID, ttlHours)
	return nil
}

// Get 指定IDの検索範囲を取得する。存在しないか期限切れなら ErrSearchAreaNotFound
func (r *FirestoreSearchAreaRepository) Get(ctx context.Context, id string) (*model.SearchAreaResult, error) {
	doc, err := r.client.Collection(searchAreasCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", repository.ErrSearchAreaNotFound, id)
		}
		return nil, fmt.Errorf("検索範囲の取得に失敗しました: %w", err)
	}

	var data model.FirestoreSearchArea
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	if data.IsExpired(r.now()) {
		return nil, fmt.Errorf("%w（有効期限切れ）: %s", repository.ErrSearchAreaNotFound, id)
	}

	return data.ToSearchAreaResult(id)
}
