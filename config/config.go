package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort           string
	AppMode           string
	AppBaseURL        string
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	JWTSecret         string
	AccessTTLDays     int
	RefreshTTLDays    int
	CookieSecure      bool
	CookieDomain      string
	SignupAutoConfirm bool
	OAuthTokenURL     string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	S3Region          string
	S3Bucket          string
	S3AccessKey       string
	S3SecretKey       string
	S3Endpoint        string
	S3PublicBase      string
	RateLimitPerMin   int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppMode:           getEnv("APP_MODE", "debug"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "wavechat"),
		DBPort:            getEnv("DB_PORT", "5432"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me"),
		AccessTTLDays:     getEnvAsInt("ACCESS_TTL_DAYS", 7),
		RefreshTTLDays:    getEnvAsInt("REFRESH_TTL_DAYS", 30),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", true),
		CookieDomain:      getEnv("COOKIE_DOMAIN", ""),
		SignupAutoConfirm: getEnvAsBool("SIGNUP_AUTOCONFIRM", false),
		OAuthTokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3PublicBase:      getEnv("S3_PUBLIC_BASE", ""),
		RateLimitPerMin:   getEnvAsInt("API_RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
