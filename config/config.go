package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	// Timezone dùng cho mọi mốc ngày trong báo cáo (mặc định Asia/Ho_Chi_Minh).
	Timezone string

	// WorkloadDivisor là hệ số khối lượng công việc của khoa,
	// dùng để quy đổi tổng lượt khám thành chỉ số bình quân.
	WorkloadDivisor float64

	// ChunkSize là số bản ghi mỗi lô khi tổng hợp theo lô.
	ChunkSize int

	// TemplateDir chứa các file mẫu cho xuất văn bản.
	TemplateDir string
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = &Config{
			AppEnv:          os.Getenv("APP_ENV"),
			Port:            os.Getenv("PORT"),
			DBUser:          os.Getenv("DB_USER"),
			DBPassword:      os.Getenv("DB_PASSWORD"),
			DBHost:          os.Getenv("DB_HOST"),
			DBPort:          os.Getenv("DB_PORT"),
			DBName:          os.Getenv("DB_NAME"),
			JWTSecret:       os.Getenv("JWT_SECRET"),
			Timezone:        envOr("TIMEZONE", "Asia/Ho_Chi_Minh"),
			WorkloadDivisor: envFloat("WORKLOAD_DIVISOR", 6.5),
			ChunkSize:       envInt("CHUNK_SIZE", 200),
			TemplateDir:     envOr("TEMPLATE_DIR", "templates"),
		}
	})
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s=%q, using default %v", key, v, def)
		return def
	}
	return f
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using default %v", key, v, def)
		return def
	}
	return n
}
