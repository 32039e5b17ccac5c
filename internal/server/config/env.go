package config

import (
	"errors"

	"github.com/dmitrijs2005/dailyjournal/internal/envx"
)

// Environment variables recognised by the server. A .env file in the working
// directory is loaded first; real environment variables win over it.
const (
	EnvEndpointAddrHTTP      = "JOURNAL_HTTP_ADDR"
	EnvDatabaseDSN           = "JOURNAL_DATABASE_DSN"
	EnvSecretKey             = "JOURNAL_SECRET_KEY"
	EnvTokenValidityDuration = "JOURNAL_TOKEN_TTL"
	EnvMinSecretLength       = "JOURNAL_MIN_SECRET_LENGTH"
	EnvFocusAreaMode         = "JOURNAL_FOCUS_AREA_MODE"
	EnvListPageSize          = "JOURNAL_LIST_PAGE_SIZE"
	EnvImportMaxItems        = "JOURNAL_IMPORT_MAX_ITEMS"
	EnvCORSOrigins           = "JOURNAL_CORS_ORIGINS"
	EnvLogLevel              = "JOURNAL_LOG_LEVEL"
	EnvS3Enabled             = "JOURNAL_S3_ENABLED"
	EnvS3RootUser            = "JOURNAL_S3_ROOT_USER"
	EnvS3RootPassword        = "JOURNAL_S3_ROOT_PASSWORD"
	EnvS3Bucket              = "JOURNAL_S3_BUCKET"
	EnvS3Region              = "JOURNAL_S3_REGION"
	EnvS3BaseEndpoint        = "JOURNAL_S3_BASE_ENDPOINT"
)

// dotenvFiles is a seam for tests.
var dotenvFiles = []string{".env"}

func parseEnv(config *Config) error {
	if err := envx.Load(dotenvFiles...); err != nil {
		return err
	}

	envx.String(EnvEndpointAddrHTTP, &config.EndpointAddrHTTP)
	envx.String(EnvDatabaseDSN, &config.DatabaseDSN)
	envx.String(EnvSecretKey, &config.SecretKey)
	envx.String(EnvFocusAreaMode, &config.FocusAreaMode)
	envx.String(EnvLogLevel, &config.LogLevel)
	envx.List(EnvCORSOrigins, &config.CORSOrigins)
	envx.String(EnvS3RootUser, &config.S3RootUser)
	envx.String(EnvS3RootPassword, &config.S3RootPassword)
	envx.String(EnvS3Bucket, &config.S3Bucket)
	envx.String(EnvS3Region, &config.S3Region)
	envx.String(EnvS3BaseEndpoint, &config.S3BaseEndpoint)

	return errors.Join(
		envx.Duration(EnvTokenValidityDuration, &config.TokenValidityDuration),
		envx.Int(EnvMinSecretLength, &config.MinSecretLength),
		envx.Int(EnvListPageSize, &config.ListPageSize),
		envx.Int(EnvImportMaxItems, &config.ImportMaxItems),
		envx.Bool(EnvS3Enabled, &config.S3Enabled),
	)
}
