package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration

	StoreDriver   string // mysql|mongo
	MySQLDSN      string
	MongoURI      string
	MongoDatabase string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	JWTSecret string

	CloudinaryBaseURL   string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	CloudinaryRPS       int
	UploadConcurrency   int

	// seeder
	APIBaseURL  string
	SeedDir     string
	SeedUserID  string
	SeedToken   string
	SeedWorkers int
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the
// process environment; real env vars win over the file.
func Load() Config {
	envFile := env("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", envFile).Msg("could not read env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":7000"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,

		StoreDriver:   env("STORE_DRIVER", "mysql"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4&loc=UTC"),
		MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: env("MONGO_DATABASE", "hotel-booking"),

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret: env("JWT_SECRET_KEY", ""),

		CloudinaryBaseURL:   env("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
		CloudinaryCloudName: env("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    env("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: env("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    env("CLOUDINARY_FOLDER", ""),
		CloudinaryRPS:       atoi("CLOUDINARY_RPS", 10),
		UploadConcurrency:   atoi("UPLOAD_CONCURRENCY", 6),

		APIBaseURL:  env("API_BASE_URL", "http://localhost:7000"),
		SeedDir:     env("SEED_DIR", "seed"),
		SeedUserID:  env("SEED_USER_ID", "seed-owner"),
		SeedToken:   env("SEED_TOKEN", ""),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET_KEY is empty")
	}
	if c.CloudinaryAPIKey == "" {
		log.Warn().Msg("CLOUDINARY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
