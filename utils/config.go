package utils

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings read from the environment
type Config struct {
	Env            string
	Port           string
	MongoURI       string
	MongoDB        string
	RequestTimeout time.Duration
	CORSOrigins    []string
	RedisAddr      string
	ReportCacheTTL time.Duration
	KafkaBroker    string
	KafkaTopic     string
}

// LoadConfig loads a .env file when one exists and then reads the environment.
// It reports whether the .env file was found so the caller can log it.
func LoadConfig() (Config, bool) {
	envLoaded := godotenv.Load() == nil

	cfg := Config{
		Env:            getEnv("APP_ENV", "production"),
		Port:           getEnv("PORT", "8000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "fooddelivery"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		ReportCacheTTL: getDuration("REPORT_CACHE_TTL", 30*time.Second),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "collection-changes"),
	}
	return cfg, envLoaded
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
