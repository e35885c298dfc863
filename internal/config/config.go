package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv, AppPort, BaseURL string
	ClientURL                string
	DBDSN                    string
	RedisAddr                string
	RedisDB                  int
	SessionCookieName        string
	SessionTTLDays           int

	GoogleClientID, GoogleClientSecret, GoogleRedirectURL string

	// OwnerOpenID grants the admin role to the matching provider subject on upsert.
	OwnerOpenID string

	CORSOrigins []string

	SyncRPS   float64
	SyncBurst int
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppEnv:             get("APP_ENV", "dev"),
		AppPort:            get("APP_PORT", "8080"),
		BaseURL:            get("APP_BASE_URL", "http://localhost:8080"),
		ClientURL:          get("CLIENT_URL", "http://localhost:5173"),
		DBDSN:              must("DB_DSN"),
		RedisAddr:          get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisDB:            atoi(get("REDIS_DB", "0")),
		SessionCookieName:  get("SESSION_COOKIE_NAME", "quotekeeper_sid"),
		SessionTTLDays:     atoi(get("SESSION_TTL_DAYS", "7")),
		GoogleClientID:     must("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: must("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  must("GOOGLE_REDIRECT_URL"),
		OwnerOpenID:        get("OWNER_OPEN_ID", ""),
		CORSOrigins:        split(get("CORS_ORIGINS", "http://localhost:5173")),
		SyncRPS:            atof(get("KINDLE_SYNC_RPS", "0.2")),
		SyncBurst:          atoi(get("KINDLE_SYNC_BURST", "3")),
	}
	return c
}

func get(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}

func atoi(s string) int     { i, _ := strconv.Atoi(s); return i }
func atof(s string) float64 { f, _ := strconv.ParseFloat(s, 64); return f }

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func GetEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}
