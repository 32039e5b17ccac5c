package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dailyjournal/internal/flagx"
	"github.com/dmitrijs2005/dailyjournal/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "168h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	MinSecretLength       int            `json:"min_secret_length"`
	FocusAreaMode         string         `json:"focus_area_mode"`
	ListPageSize          int            `json:"list_page_size"`
	ImportMaxItems        int            `json:"import_max_items"`
	CORSOrigins           []string       `json:"cors_origins"`
	LogLevel              string         `json:"log_level"`
	S3Enabled             bool           `json:"s3_enabled"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson overlays config with the JSON file named by -c/-config. Keys
// missing from the file keep their current values. Without the flag nothing
// is loaded.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{
		EndpointAddrHTTP:      config.EndpointAddrHTTP,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		TokenValidityDuration: timex.Duration{Duration: config.TokenValidityDuration},
		MinSecretLength:       config.MinSecretLength,
		FocusAreaMode:         config.FocusAreaMode,
		ListPageSize:          config.ListPageSize,
		ImportMaxItems:        config.ImportMaxItems,
		CORSOrigins:           config.CORSOrigins,
		LogLevel:              config.LogLevel,
		S3Enabled:             config.S3Enabled,
		S3RootUser:            config.S3RootUser,
		S3RootPassword:        config.S3RootPassword,
		S3Bucket:              config.S3Bucket,
		S3Region:              config.S3Region,
		S3BaseEndpoint:        config.S3BaseEndpoint,
	}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.MinSecretLength = c.MinSecretLength
	config.FocusAreaMode = c.FocusAreaMode
	config.ListPageSize = c.ListPageSize
	config.ImportMaxItems = c.ImportMaxItems
	config.CORSOrigins = c.CORSOrigins
	config.LogLevel = c.LogLevel
	config.S3Enabled = c.S3Enabled
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	return nil
}
