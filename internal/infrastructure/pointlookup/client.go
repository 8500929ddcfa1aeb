package pointlookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GeoGrid-App/internal/domain/model"
)

const (
	endpointPath = "/dev/crimesInRadius"
	apiKeyHeader = "x-api-key"
)

// Client 中心点と半径で地点を返す外部サービスのクライアント
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient は新しいクライアントを生成する
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FindInRadius は中心点から半径(km)以内の地点を取得する
// 失敗時の再試行は行わない
func (c *Client) FindInRadius(ctx context.Context, center model.LatLng, radiusKm float64) ([]model.PointRecord, error) {
	// 1. リクエストURLを構築
	reqURL, err := c.buildURL(center, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("URLの構築に失敗: %w", err)
	}

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("地点検索APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("地点検索APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	// 4. ドメインモデルに変換して返す
	points := make([]model.PointRecord, 0, len(apiResp.Result.Data.JSON))
	for _, item := range apiResp.Result.Data.JSON {
		if item.Location == nil || len(item.Location.Coordinates) < 2 {
			continue
		}
		points = append(points, model.PointRecord{
			ID:       item.ID,
			Category: item.Category,
			Location: model.NewPointGeometry(item.Location.Coordinates[0], item.Location.Coordinates[1]),
		})
	}
	return points, nil
}

func (c *Client) buildURL(center model.LatLng, radiusKm float64) (string, error) {
	input, err := json.Marshal(lookupInput{
		JSON: lookupParams{
			Lat:      center.Lat,
			Lon:      center.Lng,
			RadiusKm: radiusKm,
		},
	})
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("input", string(input))
	return fmt.Sprintf("%s%s?%s", c.baseURL, endpointPath, params.Encode()), nil
}

// --- 地点検索APIのリクエスト/レスポンス ---

type lookupInput struct {
	JSON lookupParams `json:"json"`
}

type lookupParams struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radiusKm"`
}

type lookupResponse struct {
	Result struct {
		Data struct {
			JSON []lookupItem `json:"json"`
		} `json:"data"`
	} `json:"result"`
}

type lookupItem struct {
	ID       string          `json:"id,omitempty"`
	Category string          `json:"category,omitempty"`
	Location *model.Geometry `json:"location"`
}
