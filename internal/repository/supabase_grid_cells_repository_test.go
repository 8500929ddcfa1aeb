package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoGrid-App/internal/domain/model"
	"GeoGrid-App/internal/infrastructure/database"
)

func newTestGridCellsRepository(t *testing.T, handler http.HandlerFunc) *SupabaseGridCellsRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := database.NewSupabaseClient(server.URL, "test-anon-key")
	require.NoError(t, err)
	return NewSupabaseGridCellsRepository(client).(*SupabaseGridCellsRepository)
}

func TestSupabaseGridCellsRepository_GetByIDs(t *testing.T) {
	repo := newTestGridCellsRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/"+gridCellsTable), r.URL.Path)
		assert.Equal(t, "eq.5000", r.URL.Query().Get("resolution"))
		assert.Contains(t, r.URL.Query().Get("id"), "7328194")
		// 件数は使わないので count を要求しない
		assert.NotContains(t, r.Header.Get("Prefer"), "count=")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":7328194,"resolution":5000,"x":1465,"y":3194,"geometry":null}]`))
	})

	cells, err := repo.GetByIDs(context.Background(), 5000, []int64{7328194, 7328195})
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, int64(7328194), cells[0].ID)
	assert.Equal(t, 1465, cells[0].X)
}

func TestSupabaseGridCellsRepository_GetByIDsEmpty(t *testing.T) {
	repo := newTestGridCellsRepository(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s", r.URL)
	})

	cells, err := repo.GetByIDs(context.Background(), 5000, nil)
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestSupabaseGridCellsRepository_SaveCells(t *testing.T) {
	var received []model.GridCell
	repo := newTestGridCellsRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Prefer"), "merge-duplicates")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var batch []model.GridCell
		assert.NoError(t, json.Unmarshal(body, &batch))
		received = append(received, batch...)
		w.WriteHeader(http.StatusCreated)
	})

	cells := []model.GridCell{
		{ID: 7328194, Resolution: 5000, X: 1465, Y: 3194},
		{ID: 7328195, Resolution: 5000, X: 1465, Y: 3195},
	}
	require.NoError(t, repo.SaveCells(context.Background(), cells))
	assert.Equal(t, cells, received)
}
