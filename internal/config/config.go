package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"GeoGrid-App/internal/domain/gridindex"
	"GeoGrid-App/internal/domain/model"
)

// Config 環境変数から読み込むアプリケーション設定
type Config struct {
	Port string

	GridResolution int
	RadiusKm       float64
	CircleSteps    int

	PointLookupURL    string
	PointLookupAPIKey string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseDBPassword string

	FirestoreProjectID  string
	SearchCacheTTLHours int
}

// Load .envファイル（存在すれば）と環境変数から設定を読み込む
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("⚠️ .env file not found, using system environment variables")
	}

	resolution, err := intEnv("GRID_RESOLUTION", gridindex.DefaultResolution)
	if err != nil {
		return nil, err
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("GRID_RESOLUTIONは正の整数である必要があります: %d", resolution)
	}

	radiusKm, err := floatEnv("SEARCH_RADIUS_KM", model.DefaultRadiusKm)
	if err != nil {
		return nil, err
	}

	circleSteps, err := intEnv("CIRCLE_STEPS", model.DefaultCircleSteps)
	if err != nil {
		return nil, err
	}

	ttlHours, err := intEnv("SEARCH_CACHE_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                stringEnv("PORT", "8080"),
		GridResolution:      resolution,
		RadiusKm:            radiusKm,
		CircleSteps:         circleSteps,
		PointLookupURL:      os.Getenv("POINT_LOOKUP_URL"),
		PointLookupAPIKey:   os.Getenv("POINT_LOOKUP_API_KEY"),
		SupabaseURL:         os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseDBPassword:  os.Getenv("SUPABASE_DB_PASSWORD"),
		FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
		SearchCacheTTLHours: ttlHours,
	}, nil
}

// HasPointLookup 外部の地点検索サービスが設定されているか
func (c *Config) HasPointLookup() bool {
	return c.PointLookupURL != ""
}

// HasSupabase Supabase REST APIの接続情報があるか
func (c *Config) HasSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// HasPostgres PostgreSQL直接接続の情報があるか
func (c *Config) HasPostgres() bool {
	return c.SupabaseURL != "" && c.SupabaseDBPassword != ""
}

// HasFirestore Firestoreのプロジェクトが設定されているか
func (c *Config) HasFirestore() bool {
	return c.FirestoreProjectID != ""
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%sの値が不正です: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%sの値が不正です: %w", key, err)
	}
	return f, nil
}
