package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Blob backends selectable with BLOB_BACKEND
const (
	BlobBackendMemory = "memory"
	BlobBackendGridFS = "gridfs"
	BlobBackendS3     = "s3"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	LogFormat               string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	FirebaseCredentialsPath string
	BlobBackend             string
	S3Bucket                string
	S3Region                string
	S3Endpoint              string
	S3AccessKey             string
	S3SecretKey             string
	PublicBaseURL           string
	MetricsPort             string
	ShortLinkCacheSize      int
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present. It reports whether a .env file was found.
func Load() (*Config, bool) {
	found := godotenv.Load() == nil

	env := getEnv("ENV", "development")
	logFormat := "json"
	if env == "development" {
		logFormat = "console"
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", logFormat),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "foodgram"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		BlobBackend:             strings.ToLower(getEnv("BLOB_BACKEND", BlobBackendMemory)),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		S3Region:                getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:              getEnv("S3_ENDPOINT", ""),
		S3AccessKey:             getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:             getEnv("S3_SECRET_KEY", ""),
		PublicBaseURL:           strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		ShortLinkCacheSize:      getEnvInt("SHORTLINK_CACHE_SIZE", 1024),
	}, found
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
