package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophtimeline/internal/flagx"
	"github.com/dmitrijs2005/gophtimeline/internal/timex"
)

// JsonConfig is the JSON shape of Config. Durations use timex.Duration, so
// both "1m" strings and integer nanoseconds are accepted. Absent fields keep
// the earlier value.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	PresignExpiry                *timex.Duration `json:"presign_expiry"`
	RedisAddr                    *string         `json:"redis_addr"`
	MediaCacheTTL                *timex.Duration `json:"media_cache_ttl"`
	LogLevel                     *string         `json:"log_level"`
}

func overlay(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// parseJson loads the file named by -c or -config into config. It panics
// when the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.PresignExpiry != nil {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	overlay(&config.RedisAddr, c.RedisAddr)
	if c.MediaCacheTTL != nil {
		config.MediaCacheTTL = c.MediaCacheTTL.Duration
	}
	overlay(&config.LogLevel, c.LogLevel)
}
