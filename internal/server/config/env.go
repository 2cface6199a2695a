package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded when present; variables already set in the process win.
var envFile = ".env"

// parseEnv overlays Config with TIMELINE_* environment variables. Values that
// fail to parse are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(envFile)

	setString(&cfg.EndpointAddrGRPC, "TIMELINE_GRPC_ADDR")
	setString(&cfg.DatabaseDSN, "TIMELINE_DATABASE_DSN")
	setString(&cfg.SecretKey, "TIMELINE_SECRET_KEY")
	setDuration(&cfg.AccessTokenValidityDuration, "TIMELINE_ACCESS_TOKEN_TTL")
	setDuration(&cfg.RefreshTokenValidityDuration, "TIMELINE_REFRESH_TOKEN_TTL")
	setString(&cfg.S3RootUser, "TIMELINE_S3_USER")
	setString(&cfg.S3RootPassword, "TIMELINE_S3_PASSWORD")
	setString(&cfg.S3Bucket, "TIMELINE_S3_BUCKET")
	setString(&cfg.S3Region, "TIMELINE_S3_REGION")
	setString(&cfg.S3BaseEndpoint, "TIMELINE_S3_ENDPOINT")
	setDuration(&cfg.PresignExpiry, "TIMELINE_PRESIGN_EXPIRY")
	setString(&cfg.RedisAddr, "TIMELINE_REDIS_ADDR")
	setDuration(&cfg.MediaCacheTTL, "TIMELINE_MEDIA_CACHE_TTL")
	setString(&cfg.LogLevel, "TIMELINE_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// setDuration accepts Go durations ("90s") or plain seconds ("90").
func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
	}
}
