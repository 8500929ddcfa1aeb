package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/domain/repository"
	"GeoGrid-App/internal/infrastructure/database"
	"GeoGrid-App/internal/infrastructure/firestore"
)

func TestPointResult_ToPointRecord(t *testing.T) {
	result := pointResult{
		ID:         "p1",
		Location:   `{"type":"Point","coordinates":[-74.48,50.01]}`,
		Category:   sql.NullString{String: "theft", Valid: true},
		GridCellID: 7328194,
	}

	point, err := result.toPointRecord()
	require.NoError(t, err)
	assert.Equal(t, "p1", point.ID)
	assert.Equal(t, "theft", point.Category)
	assert.Equal(t, int64(7328194), point.GridCellID)

	pt, ok := point.Point()
	require.True(t, ok)
	assert.Equal(t, orb.Point{-74.48, 50.01}, pt)

	result.Location = "broken"
	_, err = result.toPointRecord()
	assert.Error(t, err)
}

func TestLocationToGeoPoint(t *testing.T) {
	gp := LocationToGeoPoint(orb.Point{135.5, 34.7})
	assert.Equal(t, "Point", gp.Type)
	assert.Equal(t, []float64{135.5, 34.7}, gp.Coordinates)
}

// TestPostgresPointsRepository_Integration は実DBに対する統合テスト
func TestPostgresPointsRepository_Integration(t *testing.T) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	password := os.Getenv("SUPABASE_DB_PASSWORD")
	if supabaseURL == "" || password == "" {
		t.Skip("必要な環境変数が設定されていません。統合テストをスキップします。")
	}

	ctx := context.Background()
	client, err := database.NewPostgreSQLClient(ctx, supabaseURL, password)
	require.NoError(t, err)
	defer client.Close()

	indexer, err := gridindex.NewIndexer(gridindex.DefaultResolution)
	require.NoError(t, err)
	repo := NewPostgresPointsRepository(client, indexer)

	point := &model.PointRecord{Category: "test", Location: model.NewPointGeometry(-74.485, 50)}
	require.NoError(t, repo.Create(ctx, point))
	assert.Equal(t, int64(7328194), point.GridCellID)

	byCell, err := repo.GetByCellIDs(ctx, []int64{point.GridCellID})
	require.NoError(t, err)
	assert.NotEmpty(t, byCell)

	inRadius, err := repo.GetInRadius(ctx, model.LatLng{Lat: 50, Lng: -74.485}, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, inRadius)
}

// TestFirestoreSearchAreaRepository_Integration は実Firestoreに対する統合テスト
func TestFirestoreSearchAreaRepository_Integration(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_IDが設定されていません。統合テストをスキップします。")
	}

	ctx := context.Background()
	client, err := firestore.NewFirestoreClient(ctx, projectID)
	require.NoError(t, err)
	defer client.Close()

	repo := NewFirestoreSearchAreaRepository(client.GetClient())

	result := &model.SearchAreaResult{
		ID:         "search_integration_test",
		Center:     model.Location{Latitude: 50, Longitude: -74.485},
		RadiusKm:   2,
		Resolution: gridindex.DefaultResolution,
		CellIDs:    []int64{7328194},
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Save(ctx, result, 1))

	got, err := repo.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.CellIDs, got.CellIDs)

	_, err = repo.Get(ctx, "search_does_not_exist")
	assert.ErrorIs(t, err, repository.ErrSearchAreaNotFound)
}
