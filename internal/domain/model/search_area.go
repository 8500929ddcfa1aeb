package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
)

// SearchAreaRequest 検索範囲作成リクエスト（地図のダブルクリック地点）
type SearchAreaRequest struct {
	Lat      *float64 `json:"lat" binding:"required"`
	Lon      *float64 `json:"lon" binding:"required"`
	RadiusKm float64  `json:"radius_km"` // 0の場合はデフォルト半径
}

// SearchAreaResult 地図に描画する検索範囲・セル・地点のレイヤー一式
type SearchAreaResult struct {
	ID         string                     `json:"id"`
	Center     Location                   `json:"center"`
	RadiusKm   float64                    `json:"radius_km"`
	Resolution int                        `json:"resolution"`
	Centroid   Location                   `json:"centroid"`
	CellIDs    []int64                    `json:"cell_ids"`
	Radius     *geojson.FeatureCollection `json:"radius"` // 検索円
	Boxes      *geojson.FeatureCollection `json:"boxes"`  // 検索円を覆うセル
	Points     *geojson.FeatureCollection `json:"points"` // 検索円内の地点
	CreatedAt  time.Time                  `json:"created_at"`
}

// FirestoreSearchArea Firestoreに保存する検索範囲
// GeoJSONはネストした配列を含むため、レイヤー名をキーにした文字列で保存する
type FirestoreSearchArea struct {
	Center     Location          `firestore:"center"`
	RadiusKm   float64           `firestore:"radius_km"`
	Resolution int               `firestore:"resolution"`
	Centroid   Location          `firestore:"centroid"`
	CellIDs    []int64           `firestore:"cell_ids"`
	Layers     map[string]string `firestore:"layers"`
	CreatedAt  time.Time         `firestore:"createdAt"`
	ExpireAt   time.Time         `firestore:"expireAt"`
}

// Layers 地図に渡すソース名とGeoJSONの対応
func (r *SearchAreaResult) Layers() map[string]*geojson.FeatureCollection {
	return map[string]*geojson.FeatureCollection{
		LayerRadius: r.Radius,
		LayerBoxes:  r.Boxes,
		LayerPoints: r.Points,
	}
}

// ToFirestoreSearchArea Firestore保存用に変換
func (r *SearchAreaResult) ToFirestoreSearchArea(ttlHours int) (*FirestoreSearchArea, error) {
	layers := make(map[string]string, 3)
	for name, fc := range r.Layers() {
		data, err := marshalCollection(fc)
		if err != nil {
			return nil, fmt.Errorf("%sレイヤーのJSONマーシャル失敗: %w", name, err)
		}
		layers[name] = data
	}

	return &FirestoreSearchArea{
		Center:     r.Center,
		RadiusKm:   r.RadiusKm,
		Resolution: r.Resolution,
		Centroid:   r.Centroid,
		CellIDs:    r.CellIDs,
		Layers:     layers,
		CreatedAt:  r.CreatedAt,
		ExpireAt:   r.CreatedAt.Add(time.Duration(ttlHours) * time.Hour),
	}, nil
}

// ToSearchAreaResult Firestoreのドキュメントから復元
func (f *FirestoreSearchArea) ToSearchAreaResult(id string) (*SearchAreaResult, error) {
	layers := make(map[string]*geojson.FeatureCollection, 3)
	for _, name := range []string{LayerRadius, LayerBoxes, LayerPoints} {
		fc, err := unmarshalCollection(f.Layers[name])
		if err != nil {
			return nil, fmt.Errorf("%sレイヤーのJSONアンマーシャル失敗: %w", name, err)
		}
		layers[name] = fc
	}

	return &SearchAreaResult{
		ID:         id,
		Center:     f.Center,
		RadiusKm:   f.RadiusKm,
		Resolution: f.Resolution,
		Centroid:   f.Centroid,
		CellIDs:    f.CellIDs,
		Radius:     layers[LayerRadius],
		Boxes:      layers[LayerBoxes],
		Points:     layers[LayerPoints],
		CreatedAt:  f.CreatedAt,
	}, nil
}

// IsExpired 有効期限切れかどうか
func (f *FirestoreSearchArea) IsExpired(now time.Time) bool {
	return !f.ExpireAt.IsZero() && now.After(f.ExpireAt)
}

func marshalCollection(fc *geojson.FeatureCollection) (string, error) {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalCollection(data string) (*geojson.FeatureCollection, error) {
	if data == "" {
		return geojson.NewFeatureCollection(), nil
	}
	return geojson.UnmarshalFeatureCollection([]byte(data))
}
