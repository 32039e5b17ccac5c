package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dailyjournal/internal/flagx"
	"github.com/dmitrijs2005/dailyjournal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	StateDBPath        string         `json:"state_db_path"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config, if any. Keys
// absent from the file keep their current values.
func parseJson(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		StateDBPath:        cfg.StateDBPath,
		RequestTimeout:     timex.Duration{Duration: cfg.RequestTimeout},
		LogLevel:           cfg.LogLevel,
	}
	if err := json.Unmarshal(data, c); err != nil {
		return err
	}

	cfg.ServerEndpointAddr = c.ServerEndpointAddr
	cfg.StateDBPath = c.StateDBPath
	cfg.RequestTimeout = c.RequestTimeout.Duration
	cfg.LogLevel = c.LogLevel
	return nil
}
